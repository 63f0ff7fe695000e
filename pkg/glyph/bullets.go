package glyph

import "fmt"

type Glyph struct {
	Key     string
	Symbol  string
	Meaning string
	// Routine marks glyphs used only for routine checklist rows.
	Routine bool
}

const (
	escape        = "\x1b"
	resetCode     = 0
	boldCode      = 1
	underlineCode = 4
	strikeCode    = 9
)

func Strike(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, strikeCode, in, escape, resetCode)
}

func Bold(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, boldCode, in, escape, resetCode)
}

func Underline(in string) string {
	return fmt.Sprintf("%s[%dm%s%s[%dm", escape, underlineCode, in, escape, resetCode)
}

func DefaultGlyphs() []Glyph {
	g := make([]Glyph, 0, 8)

	g = append(g, Glyph{
		Key:     "+",
		Symbol:  "●",
		Meaning: "task up next",
	}, Glyph{
		Key:     "*",
		Symbol:  "✷",
		Meaning: "task in today's focus",
	}, Glyph{
		Key:     "!",
		Symbol:  "!",
		Meaning: "task overdue",
	}, Glyph{
		Key:     "x",
		Symbol:  "✘",
		Meaning: "task completed",
	}, Glyph{
		Key:     "<",
		Symbol:  "‹",
		Meaning: "task saved for later",
	}, Glyph{
		Key:     "",
		Symbol:  "",
		Meaning: "any",
	}, Glyph{
		Key:     "o",
		Symbol:  "○",
		Meaning: "routine step",
		Routine: true,
	}, Glyph{
		Key:     "v",
		Symbol:  "◉",
		Meaning: "routine step done",
		Routine: true,
	})

	return g
}

func (g Glyph) String() string {
	return g.Symbol
}

type Bullet int

const (
	Task Bullet = iota
	Focus
	Overdue
	Completed
	Later
	Any
	Step
	StepDone
)

func (b Bullet) Glyph() Glyph {
	return DefaultGlyphs()[b]
}

func (b Bullet) String() string {
	return b.Glyph().String()
}
