package server

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/haneul-mud/haneul/pkg/gamedb"
)

// TextHelp is the help file under the text directory.
const TextHelp = "help.txt"

const msgNoHelp = "그런 도움말은 없습니다."

// HelpFile holds parsed help entries. An entry starts with one or more
// "& topic" lines naming it, followed by its text.
type HelpFile struct {
	entries map[string]string // lowercase topic -> text
	topics  []string          // file order
}

// ParseHelp reads help entries from r.
func ParseHelp(r io.Reader) (*HelpFile, error) {
	hf := &HelpFile{entries: make(map[string]string)}
	scanner := bufio.NewScanner(r)

	var current []string
	var body []string
	save := func() {
		if len(current) == 0 {
			return
		}
		text := strings.TrimRight(strings.Join(body, "\r\n"), "\r\n ")
		for _, topic := range current {
			if _, dup := hf.entries[topic]; !dup {
				hf.topics = append(hf.topics, topic)
			}
			hf.entries[topic] = text
		}
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "& ") {
			topic := strings.ToLower(strings.TrimSpace(line[2:]))
			if len(body) == 0 && len(current) > 0 {
				// another name for the same entry
				current = append(current, topic)
				continue
			}
			save()
			current = []string{topic}
			body = body[:0]
			continue
		}
		if len(current) > 0 {
			body = append(body, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("help: read: %w", err)
	}
	save()
	return hf, nil
}

// Lookup finds an entry by exact topic, then by the shortest topic the
// query abbreviates. An empty query shows the 도움말 entry.
func (hf *HelpFile) Lookup(topic string) (string, bool) {
	if hf == nil {
		return "", false
	}
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		topic = "도움말"
	}
	if text, ok := hf.entries[topic]; ok {
		return text, true
	}
	best := ""
	for _, key := range hf.topics {
		if strings.HasPrefix(key, topic) && (best == "" || len(key) < len(best)) {
			best = key
		}
	}
	if best == "" {
		return "", false
	}
	return hf.entries[best], true
}

// Len returns the number of topics, aliases included.
func (hf *HelpFile) Len() int {
	if hf == nil {
		return 0
	}
	return len(hf.topics)
}

// loadHelp parses dir's help file, or the built-in help when it is missing
// or unreadable.
func loadHelp(dir string) *HelpFile {
	if dir != "" {
		if f, err := os.Open(filepath.Join(dir, TextHelp)); err == nil {
			defer f.Close()
			if hf, err := ParseHelp(f); err == nil && hf.Len() > 0 {
				return hf
			}
		}
	}
	hf, _ := ParseHelp(strings.NewReader(defaultHelp))
	return hf
}

const defaultHelp = `& 도움말
& help
도움말 <주제> 로 주제에 대한 설명을 봅니다. 명령어는 보통 낱말 뒤에
옵니다. 예를 들어 "철수 안녕 말" 은 철수에게 안녕이라고 말합니다.

주제: 명령어, 움직임, 말, 잡담, 줄임말, 설정
& 명령어
& commands
명령어 를 치면 쓸 수 있는 명령어를, 동작 을 치면 쓸 수 있는 동작을
보여 줍니다. 명령어는 앞부분만 쳐도 됩니다.
& 움직임
& movement
북, 동, 남, 서, 위, 밑 으로 움직입니다. 서 있어야 움직일 수 있습니다.
& 말
& say
<할 말> 말 로 같은 방에 있는 사람들에게 말합니다. ' 로 줄여 쓸 수 있습니다.
& 잡담
& gossip
<할 말> 잡담 으로 게임 안의 모든 사람에게 말합니다.
설정 에서 잡담 듣기를 끌 수 있습니다.
& 줄임말
& alias
<이름> <명령> 줄임말 로 줄임말을 만듭니다. 이름만 주면 줄임말을 지우고,
아무것도 주지 않으면 목록을 보여 줍니다. 명령 안에서 ; 는 명령을 나누고
$1 부터 $9 는 낱말을, $* 는 줄 전체를 뜻합니다.
& 설정
& prefs
설정 을 치면 설정 편집기가 열립니다. 번호를 골라 켜고 끕니다.
`

func (g *Game) doHelp(ch *gamedb.Character, arg string, cmd, subcmd int) {
	text, ok := g.Texts.Help().Lookup(arg)
	if !ok {
		ch.Send(msgNoHelp)
		return
	}
	ch.Send(text)
}
