package server

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/interp"
)

const maxTitleLength = 40

func (g *Game) doWho(ch *gamedb.Character, arg string, cmd, subcmd int) {
	ch.Send("접속 중인 사람들")
	ch.Send("----------------")
	list := g.whoList()
	for _, w := range list {
		line := fmt.Sprintf("[%2d %s] %s", w.Level, w.Class, w.Name)
		if w.Title != "" {
			line += " " + w.Title
		}
		if w.Frozen {
			line += " (얼어붙음)"
		}
		if w.Asleep {
			line += " (잠)"
		}
		ch.Send(line)
	}
	ch.Send(fmt.Sprintf("\r\n%d명이 접속해 있습니다.", len(list)))
}

// WhoEntry is one line of the who list.
type WhoEntry struct {
	Name   string `json:"name"`
	Title  string `json:"title,omitempty"`
	Level  int    `json:"level"`
	Class  string `json:"class"`
	Frozen bool   `json:"frozen,omitempty"`
	Asleep bool   `json:"asleep,omitempty"`
	Idle   string `json:"idle"`
}

// whoList describes the people playing, by their own bodies when switched.
func (g *Game) whoList() []WhoEntry {
	var list []WhoEntry
	for _, d := range g.playing() {
		p := d.Character
		if d.Original != nil {
			p = d.Original
		}
		list = append(list, WhoEntry{
			Name:   p.Name,
			Title:  p.Title,
			Level:  p.Level,
			Class:  p.Class.String(),
			Frozen: p.Has(gamedb.PlrFrozen),
			Asleep: d.Character.Position == gamedb.PosSleeping,
			Idle:   FormatIdleTime(d.Idle()),
		})
	}
	return list
}

// Who returns the who list from the game thread. It fails if the game
// loop does not pick the request up before ctx ends.
func (g *Game) Who(ctx context.Context) ([]WhoEntry, error) {
	reply := make(chan []WhoEntry, 1)
	g.post(func() { reply <- g.whoList() })
	select {
	case list := <-reply:
		return list, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("who: %w", ctx.Err())
	}
}

// doCommands lists the commands, or the socials, the actor may use in
// alphabetical order.
func (g *Game) doCommands(ch *gamedb.Character, arg string, cmd, subcmd int) {
	tbl := g.Interp.Table()
	level := ch.Level
	if d := descOf(ch); d != nil {
		level = d.level()
	}
	wantSocials := subcmd == scmdSocials

	var b strings.Builder
	if wantSocials {
		b.WriteString("쓸 수 있는 동작:\r\n")
	} else {
		b.WriteString("쓸 수 있는 명령어:\r\n")
	}
	col := 0
	for _, i := range tbl.Sorted() {
		c := tbl.At(i)
		if c.MinLevel < 0 || level < c.MinLevel || tbl.IsSocial(i) != wantSocials {
			continue
		}
		b.WriteString(padRight(c.Name, 11))
		col++
		if col%7 == 0 {
			b.WriteString("\r\n")
		}
	}
	ch.Send(strings.TrimRight(b.String(), " \r\n"))
}

// padRight pads s to width display columns, counting Hangul as two.
func padRight(s string, width int) string {
	w := 0
	for _, r := range s {
		if r >= 0x1100 && (r <= 0x115f || (r >= 0xac00 && r <= 0xd7a3) || (r >= 0x3130 && r <= 0x318f)) {
			w += 2
		} else {
			w++
		}
	}
	if w >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-w)
}

func (g *Game) doTitle(ch *gamedb.Character, arg string, cmd, subcmd int) {
	arg = interp.SkipSpaces(arg)
	switch {
	case ch.IsNPC():
		ch.Send("몹은 칭호를 가질 수 없습니다.")
	case arg == "":
		if ch.Title == "" {
			ch.Send("칭호가 없습니다.")
		} else {
			ch.Send("현재 칭호: " + ch.Title)
		}
	case strings.ContainsAny(arg, "()"):
		ch.Send("칭호에 괄호는 쓸 수 없습니다.")
	case utf8.RuneCountInString(arg) > maxTitleLength:
		ch.Send(fmt.Sprintf("칭호는 %d자를 넘을 수 없습니다.", maxTitleLength))
	default:
		ch.Title = arg
		ch.Send(fmt.Sprintf("이제 당신은 %s %s입니다.", ch.Title, ch.Name))
	}
}
