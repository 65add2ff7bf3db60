package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/haneul-mud/haneul/pkg/gamedb"
)

// EditorParser takes over a connection's input while it is in an editor.
type EditorParser interface {
	Parse(d *Descriptor, line string)
}

// EditorFunc adapts a function to EditorParser.
type EditorFunc func(d *Descriptor, line string)

func (f EditorFunc) Parse(d *Descriptor, line string) { f(d, line) }

const maxDescLines = 20

const (
	msgDescEditorHelp = "설명을 입력하세요. (/s 저장, /a 취소, /c 모두 지우기, /l 보기)"
	msgDescSaved      = "설명을 저장했습니다."
	msgDescAborted    = "설명을 고치지 않았습니다."
	msgDescCleared    = "설명을 모두 지웠습니다."
	msgDescEmpty      = "설명이 비어 있습니다."
	msgDescFull       = "설명이 너무 깁니다. /s로 저장하세요."
	msgPrefMenu       = "설정을 고르세요 (번호를 입력하면 켜고 끕니다, 0은 끝내기):"
	msgPrefDone       = "설정을 저장했습니다."
	msgPrefBad        = "잘못 고르셨습니다."
	msgNoEditor       = "이 편집기는 아직 쓸 수 없습니다."
)

// editorTable maps each editor state to its parser. States missing from the
// table get the unavailable editor.
func (g *Game) editorTable() map[ConnState]EditorParser {
	return map[ConnState]EditorParser{
		ConExDesc:   EditorFunc(g.descEditor),
		ConPrefEdit: EditorFunc(g.prefEditor),
		ConREdit:    EditorFunc(g.unavailableEditor),
		ConOEdit:    EditorFunc(g.unavailableEditor),
		ConZEdit:    EditorFunc(g.unavailableEditor),
		ConMEdit:    EditorFunc(g.unavailableEditor),
		ConSEdit:    EditorFunc(g.unavailableEditor),
		ConTrigEdit: EditorFunc(g.unavailableEditor),
		ConQEdit:    EditorFunc(g.unavailableEditor),
		ConTextEdit: EditorFunc(g.unavailableEditor),
	}
}

// leaveEditor sends the connection back where it came from.
func (g *Game) leaveEditor(d *Descriptor) {
	d.editBuf = nil
	if d.editReturn == ConPlaying && d.Character != nil && g.World.IsLive(d.Character) {
		d.State = ConPlaying
		d.SendPrompt(prompt)
		return
	}
	g.toMenu(d)
}

// startDescEditor opens the description editor on the connection's record.
func (g *Game) startDescEditor(d *Descriptor, back ConnState) {
	desc := ""
	if d.Record != nil {
		desc = d.Record.Description
	}
	d.editBuf = nil
	if desc != "" {
		d.editBuf = strings.Split(strings.TrimRight(desc, "\n"), "\n")
	}
	d.editReturn = back
	d.Send(msgDescEditorHelp)
	g.listDesc(d)
	d.State = ConExDesc
}

func (g *Game) listDesc(d *Descriptor) {
	if len(d.editBuf) == 0 {
		d.Send(msgDescEmpty)
		return
	}
	for i, l := range d.editBuf {
		d.Send(fmt.Sprintf("%2d] %s", i+1, l))
	}
}

func (g *Game) descEditor(d *Descriptor, line string) {
	switch strings.ToLower(line) {
	case "/s":
		desc := strings.Join(d.editBuf, "\n")
		if d.Record != nil {
			d.Record.Description = desc
			if err := g.Store.Put(d.Record); err != nil {
				d.Send(msgStoreError)
			}
		}
		if d.Character != nil {
			d.Character.Description = desc
		}
		d.Send(msgDescSaved)
		g.leaveEditor(d)
	case "/a":
		d.Send(msgDescAborted)
		g.leaveEditor(d)
	case "/c":
		d.editBuf = nil
		d.Send(msgDescCleared)
	case "/l":
		g.listDesc(d)
	default:
		if len(d.editBuf) >= maxDescLines {
			d.Send(msgDescFull)
			return
		}
		d.editBuf = append(d.editBuf, line)
	}
}

var prefToggles = []struct {
	flag gamedb.PrefFlags
	name string
}{
	{gamedb.PrfBrief, "짧은 방 설명 (brief)"},
	{gamedb.PrfCompact, "빈 줄 줄이기 (compact)"},
	{gamedb.PrfNoGossip, "잡담 끄기 (nogossip)"},
	{gamedb.PrfNoWiz, "신 채널 끄기 (nowiz)"},
	{gamedb.PrfAutoExit, "출구 자동 표시 (autoexit)"},
	{gamedb.PrfNoRepeat, "내 말 되풀이 안 함 (norepeat)"},
}

func onOff(b bool) string {
	if b {
		return "켜짐"
	}
	return "꺼짐"
}

// startPrefEditor opens the preference editor for a playing character.
func (g *Game) startPrefEditor(d *Descriptor) {
	d.editReturn = ConPlaying
	d.State = ConPrefEdit
	g.showPrefs(d)
}

func (g *Game) showPrefs(d *Descriptor) {
	d.Send(msgPrefMenu)
	for i, t := range prefToggles {
		d.Send(fmt.Sprintf("  %d) %-28s [%s]", i+1, t.name, onOff(d.Character.Pref(t.flag))))
	}
	d.SendPrompt("설정: ")
}

func (g *Game) prefEditor(d *Descriptor, line string) {
	if line == "0" || strings.EqualFold(line, "q") {
		g.saveCharacter(d.Character)
		d.Send(msgPrefDone)
		g.leaveEditor(d)
		return
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(prefToggles) {
		d.Send(msgPrefBad)
		g.showPrefs(d)
		return
	}
	d.Character.TogglePref(prefToggles[n-1].flag)
	g.showPrefs(d)
}

func (g *Game) unavailableEditor(d *Descriptor, line string) {
	d.Send(msgNoEditor)
	g.leaveEditor(d)
}
