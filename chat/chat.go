package chat

import (
	"fmt"
	"sync"

	"go-fieldwatch/types"
)

// Log is an append-only chat transcript. Nothing is ever removed.
type Log struct {
	mu       sync.RWMutex
	messages []types.ChatMessage
	nextSeq  uint64
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{}
}

// Echo is the bot reply for text.
func Echo(text string) string {
	return fmt.Sprintf("You said '%s'", text)
}

// Append records text and the bot echo together. Empty text or a non-positive
// send counter leaves the log untouched; the returned bool reports whether
// anything was appended.
func (l *Log) Append(text string, sendCount int) ([]string, bool) {
	if text == "" || sendCount <= 0 {
		return l.Render(), false
	}

	l.mu.Lock()
	l.push(types.User, text)
	l.push(types.Bot, Echo(text))
	l.mu.Unlock()

	return l.Render(), true
}

func (l *Log) push(author types.Author, text string) {
	l.messages = append(l.messages, types.ChatMessage{Author: author, Text: text, Seq: l.nextSeq})
	l.nextSeq++
}

// Render returns "<Author>: <text>" lines, oldest first.
func (l *Log) Render() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	lines := make([]string, len(l.messages))
	for i, m := range l.messages {
		lines[i] = fmt.Sprintf("%s: %s", m.Author, m.Text)
	}
	return lines
}

func (l *Log) Messages() []types.ChatMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]types.ChatMessage(nil), l.messages...)
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
