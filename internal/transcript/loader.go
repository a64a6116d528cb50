// Package transcript loads conversation transcripts and coerces them into
// the canonical in-memory shape the drift detectors consume.
//
// Accepted input shapes:
//   - a JSON array of message objects
//   - a JSON object with a "messages" array (optionally "schema_version")
//   - JSONL, one message object per line
//
// Coercion rules: idx auto-assigned in file order when absent, role mapped
// onto {system,user,assistant,tool}, non-string content re-serialized to a
// compact string, tokens estimated when absent.
package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// rawMessage is the permissive decode target before coercion.
type rawMessage struct {
	Idx       *int            `json:"idx"`
	Role      string          `json:"role"`
	Content   json.RawMessage `json:"content"`
	Tokens    *int            `json:"tokens"`
	TS        *time.Time      `json:"ts"`
	SessionID string          `json:"session_id"`
}

type rawTranscript struct {
	SchemaVersion int          `json:"schema_version"`
	Messages      []rawMessage `json:"messages"`
}

// Load reads and coerces a transcript file.
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", path, err)
	}
	return t, nil
}

// Parse coerces raw transcript bytes into a Transcript.
func Parse(data []byte) (*Transcript, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &Transcript{}, nil
	}

	var raws []rawMessage
	schemaVersion := 0

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, err
		}
	case '{':
		var rt rawTranscript
		if err := json.Unmarshal(trimmed, &rt); err == nil && rt.Messages != nil {
			raws = rt.Messages
			schemaVersion = rt.SchemaVersion
			break
		}
		// Not a wrapper object: treat as JSONL starting with an object.
		var err error
		raws, err = parseLines(trimmed)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unrecognized transcript format")
	}

	return coerce(raws, schemaVersion), nil
}

func parseLines(data []byte) ([]rawMessage, error) {
	var raws []rawMessage
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rm rawMessage
		if err := json.Unmarshal(line, &rm); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		raws = append(raws, rm)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return raws, nil
}

func coerce(raws []rawMessage, schemaVersion int) *Transcript {
	msgs := make([]Message, 0, len(raws))
	nextIdx := 0
	for _, rm := range raws {
		idx := nextIdx
		if rm.Idx != nil && *rm.Idx >= nextIdx {
			idx = *rm.Idx
		}
		nextIdx = idx + 1

		content := coerceContent(rm.Content)
		tokens := 0
		if rm.Tokens != nil && *rm.Tokens >= 0 {
			tokens = *rm.Tokens
		} else {
			tokens = EstimateTokens(content)
		}

		msgs = append(msgs, Message{
			Idx:       idx,
			Role:      coerceRole(rm.Role),
			Content:   content,
			Tokens:    tokens,
			TS:        rm.TS,
			SessionID: rm.SessionID,
		})
	}
	return &Transcript{SchemaVersion: schemaVersion, Messages: msgs}
}

// coerceContent stringifies whatever the content field held.
// Structured content (content-part arrays etc.) is kept as compact JSON
// so the detectors still see the text inside it.
func coerceContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// coerceRole maps arbitrary role strings onto the canonical set.
func coerceRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleSystem, "developer":
		return RoleSystem
	case RoleUser, "human", "":
		return RoleUser
	case RoleAssistant, "ai", "bot", "model":
		return RoleAssistant
	default:
		return RoleTool
	}
}
