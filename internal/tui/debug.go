package tui

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "timetable-debug.log"

var (
	debugLog  = slog.New(slog.DiscardHandler)
	debugFile *os.File
)

// InitDebugLogger initializes the debug logger if debug mode is enabled.
// Entries are JSON lines in DebugLogPath.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = slog.New(slog.DiscardHandler)
		return nil
	}

	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	debugFile = f
	debugLog = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	debugLog.Info("DEBUG_START", "log_file", DebugLogPath, "time", time.Now().Format(time.RFC3339))
	return nil
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugFile == nil {
		return
	}
	debugLog.Info("DEBUG_END", "time", time.Now().Format(time.RFC3339))
	_ = debugFile.Close()
	debugFile = nil
	debugLog = slog.New(slog.DiscardHandler)
}

// DebugLogger returns the logger handed to the state machine.
func DebugLogger() *slog.Logger {
	return debugLog
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg, state string) {
	debugLog.Debug("KEY_PRESS", "key", msg.String(), "state", state)
}

// LogTransition logs a change of the visible interaction state.
func LogTransition(from, to, reason string) {
	debugLog.Debug("TRANSITION", "from", from, "to", to, "reason", reason)
}

// LogCursorMove logs cursor movement.
func LogCursorMove(slot int, slotID string) {
	debugLog.Debug("CURSOR_MOVE", "slot", slot, "slot_id", slotID)
}

// LogError logs an error.
func LogError(context string, err error) {
	debugLog.Error("ERROR", "context", context, "error", err.Error())
}
