package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/whiskerworks/interrogation-engine/pkg/character"
	"github.com/whiskerworks/interrogation-engine/pkg/chat"
	"github.com/whiskerworks/interrogation-engine/pkg/session"
)

const (
	DetectiveName   = "Detective"
	PlaceHolderText = "Ask your question here..."
)

var titleCaser = cases.Title(language.English)

// ConsoleUI is the BubbleTea model that runs the interrogation room UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	session      *session.Session
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Character selection state
	showCharacterModal bool
	characters         []character.Character
	selectedCharacter  int
	loadingCharacters  bool

	// Quit confirmation state
	showQuitModal bool

	// Streamed reply accumulated from turn.chunk events
	streamingReply string

	// Progress bar state
	progressTick int

	events    chan SSEEvent
	sseCtx    context.Context
	sseCancel context.CancelFunc

	// Transient status line, e.g. after /copy
	notice string
}

type charactersLoadedMsg struct {
	characters []character.Character
	err        error
}

type sessionMsg struct {
	session *session.Session
	err     error
}

type chatSentMsg struct {
	err error
}

type sseEventMsg struct {
	event SSEEvent
}

type sseClosedMsg struct {
	err error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	characterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	sseCtx, sseCancel := context.WithCancel(context.Background())

	return ConsoleUI{
		config:             cfg,
		client:             client,
		textarea:           ta,
		chatViewport:       chatVp,
		metaViewport:       metaVp,
		ready:              false,
		showCharacterModal: true,
		loadingCharacters:  true,
		selectedCharacter:  0,
		events:             make(chan SSEEvent, 16),
		sseCtx:             sseCtx,
		sseCancel:          sseCancel,
	}
}

func (m *ConsoleUI) currentCharacter() *character.Character {
	if m.session == nil {
		return nil
	}
	for i := range m.characters {
		if m.characters[i].ID == m.session.CharacterID {
			return &m.characters[i]
		}
	}
	return nil
}

func (m *ConsoleUI) characterName() string {
	if c := m.currentCharacter(); c != nil {
		return c.Name
	}
	return "Suspect"
}

func humanize(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

func writeMetadata(sess *session.Session, c *character.Character) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("CASE FILE") + "\n\n")
	content.WriteString("The Great Fish Treat Heist\n\n")

	if c != nil {
		content.WriteString("In the room:\n")
		content.WriteString(c.Name + "\n")
		content.WriteString(humanize(string(c.Role)) + ", " + humanize(string(c.Status)) + "\n\n")
		if c.Alibi != "" {
			content.WriteString("Alibi:\n")
			content.WriteString(c.Alibi + "\n\n")
		}
	}

	content.WriteString("Questions asked:\n")
	userTurns := 0
	for _, t := range sess.Turns {
		if t.Role == chat.RoleUser {
			userTurns++
		}
	}
	content.WriteString(fmt.Sprintf("%d total\n\n", userTurns))

	content.WriteString("Status:\n")
	content.WriteString(humanize(string(sess.Status)) + "\n\n")

	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Enter: Ask\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• /copy: Copy transcript\n")
	content.WriteString("• /switch: Change suspect\n")

	return content.String()
}

// writeChatContent rebuilds the transcript view for the current
// viewport width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("INTERROGATION ROOM") + "\n\n")
	content.WriteString("Question the suspects. Somebody knows where the treats went.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	if m.session != nil {
		for _, turn := range m.session.Turns {
			text := turn.Text()
			if text == "" {
				continue
			}
			switch turn.Role {
			case chat.RoleUser:
				content.WriteString(userStyle.Render(DetectiveName+": ") + wordwrap.String(text, chatWidth-6) + "\n\n")
			case chat.RoleAssistant:
				content.WriteString(speakerStyle.Render(m.characterName()+": ") + characterStyle.Render(wordwrap.String(text, chatWidth-6)) + "\n\n")
			}
		}
	}

	if m.streamingReply != "" {
		content.WriteString(speakerStyle.Render(m.characterName()+": ") + characterStyle.Render(wordwrap.String(m.streamingReply, chatWidth-6)) + "\n\n")
	}

	if m.loading && m.streamingReply == "" {
		content.WriteString(m.renderProgressBar())
	}

	if m.notice != "" {
		content.WriteString(loadingStyle.Render(m.notice) + "\n")
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

// transcript renders the plain-text conversation for clipboard export.
func (m *ConsoleUI) transcript() string {
	if m.session == nil {
		return ""
	}
	var sb strings.Builder
	for _, turn := range m.session.Turns {
		text := turn.Text()
		if text == "" {
			continue
		}
		switch turn.Role {
		case chat.RoleUser:
			sb.WriteString(DetectiveName + ": " + text + "\n")
		case chat.RoleAssistant:
			sb.WriteString(m.characterName() + ": " + text + "\n")
		}
	}
	return sb.String()
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.loadCharacters(), m.startSSE(), m.waitForEvent())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// SSE events are handled regardless of which modal is open.
	switch msg := msg.(type) {
	case sseEventMsg:
		return m.handleSSEEvent(msg.event)
	case sseClosedMsg:
		if msg.err != nil && m.err == nil {
			m.err = msg.err
		}
		return m, nil
	}

	if m.showCharacterModal {
		return m.updateCharacterModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizePanels()
		m.ready = true
		m.writeChatContent()
		if m.session != nil {
			m.metaViewport.SetContent(writeMetadata(m.session, m.currentCharacter()))
		}

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.notice = ""
			m.loading = true
			m.progressTick = 0

			// Optimistically show the question; the server copy
			// arrives with the published turn.
			if m.session != nil {
				m.session.Turns = append(m.session.Turns, chat.NewTurn(chat.RoleUser, input))
			}
			m.writeChatContent()

			return m, tea.Batch(m.sendChatMessage(input), progressTick())
		}

	case chatSentMsg:
		if msg.err != nil {
			m.loading = false
			m.err = msg.err
			m.writeChatContent()
			currentContent := m.chatViewport.View()
			errorMsg := errorStyle.Render("Error: "+msg.err.Error()) + "\n\n"
			m.chatViewport.SetContent(currentContent + errorMsg)
			return m, m.refreshSession()
		}

	case sessionMsg:
		if msg.err == nil && msg.session != nil {
			m.session = msg.session
			m.writeChatContent()
			m.metaViewport.SetContent(writeMetadata(m.session, m.currentCharacter()))
		}

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m *ConsoleUI) resizePanels() {
	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	m.chatViewport.Width = chatWidth - 2
	m.chatViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(chatWidth - 4)
}

func (m ConsoleUI) handleSSEEvent(event SSEEvent) (tea.Model, tea.Cmd) {
	inner, _ := event.Data["data"].(map[string]interface{})

	switch event.Type {
	case "turn.chunk":
		if delta, ok := inner["delta"].(string); ok {
			m.streamingReply += delta
			m.writeChatContent()
		}
		return m, m.waitForEvent()

	case "turn.published":
		m.loading = false
		m.streamingReply = ""
		cmds := []tea.Cmd{m.refreshSession(), m.waitForEvent()}
		if _, spoken := inner["audio"]; spoken {
			// No speakers in the interrogation room; acknowledge
			// playback right away so the session goes idle.
			cmds = append(cmds, m.acknowledgePlayback())
		}
		return m, tea.Batch(cmds...)

	case "turn.failed":
		m.loading = false
		m.streamingReply = ""
		if errText, ok := inner["error"].(string); ok {
			m.err = fmt.Errorf("%s", errText)
		}
		return m, tea.Batch(m.refreshSession(), m.waitForEvent())

	case "session.switched":
		m.streamingReply = ""
		return m, tea.Batch(m.refreshSession(), m.waitForEvent())
	}

	return m, m.waitForEvent()
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	m.textarea.Reset()

	switch cmd {
	case "/help":
		helpText := `
Commands:
• /help - Show this help
• /copy - Copy the transcript to the clipboard
• /switch - Pick a different character
• Ctrl+C - Quit

How to interrogate:
• Type your questions and press Enter
• The suspect answers in character
• Watch for contradictions with the case file
`
		currentContent := m.chatViewport.View()
		m.chatViewport.SetContent(currentContent + titleStyle.Render("Help:") + helpText + "\n")
		m.chatViewport.GotoBottom()

	case "/copy":
		if err := clipboard.WriteAll(m.transcript()); err != nil {
			m.notice = "Copy failed: " + err.Error()
		} else {
			m.notice = "Transcript copied to clipboard."
		}
		m.writeChatContent()

	case "/switch":
		m.showCharacterModal = true
		m.notice = ""
		return m, nil
	}

	return m, nil
}

func (m ConsoleUI) sendChatMessage(message string) tea.Cmd {
	return func() tea.Msg {
		return chatSentMsg{err: sendChat(m.client, m.config.APIBaseURL, message)}
	}
}

func (m ConsoleUI) refreshSession() tea.Cmd {
	return func() tea.Msg {
		sess, err := getSession(m.client, m.config.APIBaseURL)
		return sessionMsg{sess, err}
	}
}

func (m ConsoleUI) acknowledgePlayback() tea.Cmd {
	return func() tea.Msg {
		if err := markPlaybackDone(m.client, m.config.APIBaseURL); err != nil {
			return sessionMsg{nil, err}
		}
		sess, err := getSession(m.client, m.config.APIBaseURL)
		return sessionMsg{sess, err}
	}
}

func (m ConsoleUI) loadCharacters() tea.Cmd {
	return func() tea.Msg {
		characters, err := listCharacters(m.client, m.config.APIBaseURL)
		return charactersLoadedMsg{characters, err}
	}
}

func (m ConsoleUI) startSSE() tea.Cmd {
	ctx := m.sseCtx
	events := m.events
	baseURL := m.config.APIBaseURL
	return func() tea.Msg {
		err := listenToSSE(ctx, baseURL, events)
		return sseClosedMsg{err}
	}
}

func (m ConsoleUI) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return sseClosedMsg{nil}
		}
		return sseEventMsg{event}
	}
}

func (m ConsoleUI) selectCharacter(characterID string) tea.Cmd {
	return func() tea.Msg {
		sess, err := switchCharacter(m.client, m.config.APIBaseURL, characterID)
		return sessionMsg{sess, err}
	}
}

func (m ConsoleUI) updateCharacterModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case charactersLoadedMsg:
		m.loadingCharacters = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.characters = msg.characters
		}

	case sessionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.session = msg.session
		m.showCharacterModal = false
		if m.width > 0 && m.height > 0 {
			m.resizePanels()
		}
		m.writeChatContent()
		m.metaViewport.SetContent(writeMetadata(m.session, m.currentCharacter()))
		m.textarea.Focus()
		m.ready = true
		return m, textarea.Blink

	case tea.KeyMsg:
		if m.loadingCharacters {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		if m.err != nil {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedCharacter > 0 {
				m.selectedCharacter--
			}
		case tea.KeyDown:
			if m.selectedCharacter < len(m.characters)-1 {
				m.selectedCharacter++
			}
		case tea.KeyEnter:
			if len(m.characters) > 0 {
				return m, m.selectCharacter(m.characters[m.selectedCharacter].ID)
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			if m.sseCancel != nil {
				m.sseCancel()
			}
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				if m.sseCancel != nil {
					m.sseCancel()
				}
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if !m.showCharacterModal {
					m.textarea.Focus()
					return m, textarea.Blink
				}
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave the Interrogation?"))
	content.WriteString("\n\n")
	content.WriteString("The case will still be here when you get back.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderCharacterModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingCharacters {
		content.WriteString(modalTitleStyle.Render("Loading Characters..."))
		content.WriteString("\n\n")
		content.WriteString(loadingStyle.Render("Fetching the suspect list..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(fmt.Sprintf("Failed to load characters: %v", m.err)))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else {
		content.WriteString(modalTitleStyle.Render("Who do you want to question?"))
		content.WriteString("\n\n")

		for i, c := range m.characters {
			label := fmt.Sprintf("%s — %s, %s", c.Name, humanize(string(c.Role)), humanize(string(c.Status)))
			if i == m.selectedCharacter {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", label)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", label)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(64).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showCharacterModal {
		return m.renderCharacterModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
