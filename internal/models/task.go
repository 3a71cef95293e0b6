package models

import (
	"fmt"
	"strings"
)

// Block identifies the part of the day a task belongs to.
type Block string

const (
	BlockMorning   Block = "morning"
	BlockEvening   Block = "evening"
	BlockLateNight Block = "latenight"
)

// BlockInfo is the display metadata of a block.
type BlockInfo struct {
	Block Block
	Name  string
	Time  string
	Emoji string
}

var blocks = []BlockInfo{
	{Block: BlockMorning, Name: "Morning", Time: "11 AM - 3 PM", Emoji: "🌅"},
	{Block: BlockEvening, Name: "Evening", Time: "5 PM - 9 PM", Emoji: "🌆"},
	{Block: BlockLateNight, Name: "Late Night", Time: "11 PM - 2 AM", Emoji: "🌙"},
}

// Blocks returns the blocks in display order.
func Blocks() []BlockInfo {
	out := make([]BlockInfo, len(blocks))
	copy(out, blocks)
	return out
}

// Info returns the display metadata for b. Unknown blocks get their raw
// identifier as name.
func (b Block) Info() BlockInfo {
	for _, info := range blocks {
		if info.Block == b {
			return info
		}
	}
	return BlockInfo{Block: b, Name: string(b)}
}

// Valid reports whether b is one of the fixed blocks.
func (b Block) Valid() bool {
	for _, info := range blocks {
		if info.Block == b {
			return true
		}
	}
	return false
}

// ParseBlock accepts a block identifier, ignoring case and surrounding space.
func ParseBlock(s string) (Block, error) {
	b := Block(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("invalid block: %q (expected morning, evening or latenight)", s)
	}
	return b, nil
}

// Task is a single entry logged into a block. Date is the calendar day the
// task is attributed to.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Block     Block  `json:"block"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"`
}
