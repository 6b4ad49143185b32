package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	registerHeight = 9
	disasmHeight   = 9
	minTermWidth   = 80
	minTermHeight  = 24
	logBufferSize  = 200
)

// Key expiry timeout - slightly longer than typical key repeat interval.
// Terminals only report key presses, so a key counts as held while it keeps repeating.
const keyTimeout = 100 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen    tcell.Screen
	logBuffer *render.LogBuffer
	logLevel  slog.Level
	config    backend.BackendConfig

	// eventQueue is also written by the signal goroutine
	queueMu    sync.Mutex
	eventQueue []backend.InputEvent // Collect events to return

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame

	debugProvider backend.DebugDataProvider
	soundWasOn    bool

	currentFrame *video.FrameBuffer // Store current frame for snapshot generation
	signals      chan os.Signal
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
	}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	return t.initWithScreen(config, screen)
}

func (t *Backend) initWithScreen(config backend.BackendConfig, screen tcell.Screen) error {
	t.config = config
	t.debugProvider = config.DebugProvider
	t.eventQueue = make([]backend.InputEvent, 0)
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen = screen

	// Logs would corrupt the screen, so capture them for the log panel instead
	t.logBuffer = render.NewLogBuffer(logBufferSize)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	slog.Info("Terminal backend initialized")
	if config.ShowDebug {
		slog.Debug("Debug mode enabled")
	}

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	// Set up signal handling for graceful shutdown
	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	go t.handleSignals()

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	now := time.Now()

	// Poll for input events synchronously
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events := t.keypadEvents(now)
	events = append(events, t.drainQueue()...)

	t.updateSound()

	t.currentFrame = frame
	t.render(frame)
	t.screen.Show()

	return events, nil
}

// keypadEvents turns the timestamps of repeated key presses into
// press, hold and release events.
func (t *Backend) keypadEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}

		currentlyActive[act] = true
		if !t.activeKeys[act] {
			slog.Debug("Key press", "action", act)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		} else {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", act)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive
	return events
}

func (t *Backend) enqueue(act action.Action) {
	t.queueMu.Lock()
	defer t.queueMu.Unlock()
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

func (t *Backend) drainQueue() []backend.InputEvent {
	t.queueMu.Lock()
	defer t.queueMu.Unlock()

	events := t.eventQueue
	t.eventQueue = nil
	for _, evt := range events {
		slog.Debug("UI event", "action", evt.Action, "type", evt.Type)
	}
	return events
}

// updateSound rings the terminal bell when the tone starts.
func (t *Backend) updateSound() {
	if t.config.Sound == nil {
		return
	}
	on := t.config.Sound.SoundActive()
	if on && !t.soundWasOn {
		if err := t.screen.Beep(); err != nil {
			slog.Debug("Terminal bell failed", "error", err)
		}
	}
	t.soundWasOn = on
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
		close(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame, t.config.Palette)
	case action.EmulatorDebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
		if t.config.ShowDebug {
			slog.Info("Debug display enabled")
		} else {
			slog.Info("Debug display disabled")
		}
	case action.EmulatorDebugUpdate:
		t.screen.Sync()
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

func (t *Backend) handleSignals() {
	if _, ok := <-t.signals; !ok {
		return
	}
	t.enqueue(action.EmulatorQuit)
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	if action.GetInfo(act).Category == action.CategoryGameInput {
		t.keyStates[act] = now
		return
	}
	t.enqueue(act)
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF5:     "F5",
	tcell.KeyF10:    "F10",
	tcell.KeyF11:    "F11",
	tcell.KeyF12:    "F12",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.EmulatorQuit

	return mapping
}

// buildRuneMapping creates the rune mapping from default mappings
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for keyName, act := range input.DefaultKeyMap {
		if keyName == "Space" {
			mapping[' '] = act
			continue
		}
		if runes := []rune(keyName); len(runes) == 1 {
			mapping[runes[0]] = act
		}
	}

	return mapping
}

// keyMapping maps tcell keys to actions
var keyMapping = buildKeyMapping()

// runeMapping maps runes to actions
var runeMapping = buildRuneMapping()

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		switch t.logLevel {
		case slog.LevelDebug:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelError
		}
	case 1:
		switch t.logLevel {
		case slog.LevelError:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	dividerX := width + 2
	rightPanelX := dividerX + 2
	rightPanelWidth := termWidth - rightPanelX

	t.drawBorders(termWidth, termHeight, dividerX)
	t.drawScreen(frame)

	logsY := 1
	if t.config.ShowDebug && t.debugProvider != nil {
		if data := t.debugProvider.ExtractDebugData(); data != nil {
			t.drawRegisters(data, rightPanelX, 1, rightPanelWidth)
			t.drawDisassembly(data, rightPanelX, registerHeight+2, rightPanelWidth)
		}
		logsY = registerHeight + disasmHeight + 3
	}
	t.drawLogs(rightPanelX, logsY, rightPanelWidth, termHeight)
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	for i, ch := range []rune(render.Truncate(text, maxWidth)) {
		t.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := " CHIP-8 "
	if t.debugProvider != nil {
		if data := t.debugProvider.ExtractDebugData(); data != nil && data.RunState != "RUNNING" {
			title = fmt.Sprintf(" CHIP-8 [%s] ", data.RunState)
		}
	}
	t.drawText(1, 0, dividerX-1, title, titleStyle)

	startX := dividerX + 2
	panelWidth := termWidth - startX
	if t.config.ShowDebug {
		registerEndY := registerHeight + 1
		disasmEndY := registerEndY + disasmHeight + 1
		for _, y := range []int{registerEndY, disasmEndY} {
			for x := dividerX + 1; x < termWidth; x++ {
				t.screen.SetContent(x, y, '─', nil, borderStyle)
			}
			t.screen.SetContent(dividerX, y, '├', nil, borderStyle)
		}

		t.drawText(startX, 0, panelWidth, " Registers ", titleStyle)
		t.drawText(startX, registerEndY, panelWidth, " Disassembly ", titleStyle)
		t.drawText(startX, disasmEndY, panelWidth, t.logTitle(), titleStyle)
	} else {
		t.drawText(startX, 0, panelWidth, t.logTitle(), titleStyle)
	}

	helpText := " F10=debug SPACE=pause N=step F5=reset F12=snapshot ESC=quit | Logs: +/- "
	t.drawText(0, termHeight-1, termWidth, helpText, borderStyle)
}

func (t *Backend) logTitle() string {
	levelStr := "INFO"
	switch t.logLevel {
	case slog.LevelDebug:
		levelStr = "DEBUG"
	case slog.LevelWarn:
		levelStr = "WARN"
	case slog.LevelError:
		levelStr = "ERROR"
	}
	return fmt.Sprintf(" Logs [%s] (-/+ filter) ", levelStr)
}

// drawScreen renders two display rows per terminal row using half blocks.
func (t *Backend) drawScreen(frame *video.FrameBuffer) {
	palette := t.config.Palette
	fgR, fgG, fgB, _ := palette.Foreground.RGBA()
	bgR, bgG, bgB, _ := palette.Background.RGBA()
	style := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fgR), int32(fgG), int32(fgB))).
		Background(tcell.NewRGBColor(int32(bgR), int32(bgG), int32(bgB)))

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := frame.GetPixel(uint(x), uint(y))
			bottom := frame.GetPixel(uint(x), uint(y+1))
			t.screen.SetContent(x+1, y/2+1, render.HalfBlockChar(top, bottom), nil, style)
		}
	}
}

// registerLines formats the register panel.
func registerLines(data *debug.Data) []string {
	cpu := data.CPU
	lines := []string{fmt.Sprintf("Status: %s", data.RunState)}
	for row := 0; row < 4; row++ {
		i := row * 4
		lines = append(lines, fmt.Sprintf("V%X:%02X  V%X:%02X  V%X:%02X  V%X:%02X",
			i, cpu.V[i], i+1, cpu.V[i+1], i+2, cpu.V[i+2], i+3, cpu.V[i+3]))
	}
	lines = append(lines,
		fmt.Sprintf("PC: 0x%03X  I: 0x%03X  OP: 0x%04X", cpu.PC, cpu.I, cpu.Opcode),
		fmt.Sprintf("DT: %3d  ST: %3d  SP: %d", data.DelayTimer, data.SoundTimer, len(data.Stack)),
		fmt.Sprintf("Stack: %s", formatStack(data.Stack)),
		fmt.Sprintf("Keys: %s  Cycles: %d", formatKeys(data.Keypad), cpu.Cycles),
	)
	return lines
}

func formatStack(stack []uint16) string {
	if len(stack) == 0 {
		return "-"
	}
	s := ""
	for i := len(stack) - 1; i >= 0; i-- {
		s += fmt.Sprintf("%03X ", stack[i])
	}
	return s
}

func formatKeys(keys [16]bool) string {
	s := ""
	for k, pressed := range keys {
		if pressed {
			s += fmt.Sprintf("%X", k)
		} else {
			s += "."
		}
	}
	return s
}

func (t *Backend) drawRegisters(data *debug.Data, startX, startY, panelWidth int) {
	if data.CPU == nil || panelWidth <= 0 {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range registerLines(data) {
		if i >= registerHeight {
			break
		}
		t.drawText(startX, startY+i, panelWidth, line, style)
	}
}

// disassemblyLines returns up to disasmHeight lines centered on pc.
func disassemblyLines(snapshot *debug.MemorySnapshot, pc uint16) []disasm.Line {
	start := pc
	for i := 0; i < disasmHeight/2 && snapshot.Contains(start-2); i++ {
		start -= 2
	}

	lines := make([]disasm.Line, 0, disasmHeight)
	for addr := start; snapshot.Contains(addr) && len(lines) < disasmHeight; addr += 2 {
		lines = append(lines, disasm.DisassembleAt(addr, snapshot))
	}
	return lines
}

func (t *Backend) drawDisassembly(data *debug.Data, startX, startY, panelWidth int) {
	if data.CPU == nil || data.Memory == nil || panelWidth <= 0 {
		return
	}

	pc := data.CPU.PC
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	for i, line := range disassemblyLines(data.Memory, pc) {
		text := fmt.Sprintf("  0x%03X: %04X  %s", line.Address, line.Opcode, line.Instruction)
		useStyle := style
		if line.Address == pc {
			text = "→" + text[1:]
			useStyle = currentStyle
		}
		t.drawText(startX, startY+i, panelWidth, text, useStyle)
	}
}

func (t *Backend) drawLogs(startX, startY, panelWidth, termHeight int) {
	availableHeight := termHeight - startY - 1
	if panelWidth <= 0 || availableHeight <= 0 {
		return
	}

	allLogs := t.logBuffer.GetRecent(availableHeight * 4)
	logs := make([]render.LogEntry, 0, availableHeight)
	for _, entry := range allLogs {
		if entry.Level >= t.logLevel {
			logs = append(logs, entry)
			if len(logs) >= availableHeight {
				break
			}
		}
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, logEntry := range logs {
		style := infoStyle
		switch logEntry.Level {
		case slog.LevelDebug:
			style = debugStyle
		case slog.LevelWarn:
			style = warnStyle
		case slog.LevelError:
			style = errStyle
		}

		t.drawText(startX, startY+i, panelWidth, render.FormatLogEntry(logEntry), style)
	}
}

var _ backend.Backend = (*Backend)(nil)
var _ backend.ActionHandler = (*Backend)(nil)
