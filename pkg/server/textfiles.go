package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Text file names under the text directory.
const (
	TextGreetings  = "greetings.txt"
	TextMOTD       = "motd.txt"
	TextIMOTD      = "imotd.txt"
	TextBackground = "background.txt"
	TextMenu       = "menu.txt"
)

// trackedFiles lists the text files with the text shown when a file is
// missing or empty.
var trackedFiles = []struct {
	Name    string
	Desc    string
	Default string
}{
	{TextGreetings, "welcome screen", "\r\n하늘 MUD에 오신 것을 환영합니다.\r\n"},
	{TextMOTD, "post-login MOTD", "\r\n오늘의 소식: 특별한 소식은 없습니다.\r\n"},
	{TextIMOTD, "immortal MOTD", "\r\n신들을 위한 소식: 특별한 소식은 없습니다.\r\n"},
	{TextBackground, "background story", "\r\n옛날 옛적, 하늘과 땅이 처음 갈라졌을 때...\r\n"},
	{TextMenu, "main menu",
		"\r\n0) 접속 끊기\r\n1) 게임 시작\r\n2) 자기 설명 쓰기\r\n3) 배경 이야기 읽기\r\n4) 비밀번호 바꾸기\r\n5) 캐릭터 지우기\r\n\r\n   선택하세요: "},
}

// TextFiles holds cached text file contents served at various connection
// lifecycle points (welcome screen, MOTD, main menu).
type TextFiles struct {
	mu    sync.RWMutex
	dir   string
	texts map[string]string
	help  *HelpFile
}

// NewTextFiles reads the tracked files from dir. An empty dir or missing
// files fall back to the built-in texts.
func NewTextFiles(dir string) *TextFiles {
	tf := &TextFiles{dir: dir, texts: make(map[string]string)}
	tf.loadAll()
	return tf
}

// Get returns the text for name.
func (tf *TextFiles) Get(name string) string {
	tf.mu.RLock()
	defer tf.mu.RUnlock()
	if s := tf.texts[name]; s != "" {
		return s
	}
	for _, f := range trackedFiles {
		if f.Name == name {
			return f.Default
		}
	}
	return ""
}

// loadFile reads a single text file, returning empty string on any error.
func loadFile(dir, name string) string {
	if dir == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	// telnet wants CRLF
	s := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

// Help returns the parsed help entries.
func (tf *TextFiles) Help() *HelpFile {
	tf.mu.RLock()
	defer tf.mu.RUnlock()
	return tf.help
}

// loadAll populates every tracked file and returns how many were found.
func (tf *TextFiles) loadAll() int {
	help := loadHelp(tf.dir)
	tf.mu.Lock()
	defer tf.mu.Unlock()
	tf.help = help
	count := 0
	for _, f := range trackedFiles {
		tf.texts[f.Name] = loadFile(tf.dir, f.Name)
		if tf.texts[f.Name] != "" {
			count++
		}
	}
	return count
}

// Reload rereads one tracked file. It reports false for untracked names.
func (tf *TextFiles) Reload(name string) bool {
	if name == TextHelp {
		help := loadHelp(tf.dir)
		tf.mu.Lock()
		tf.help = help
		tf.mu.Unlock()
		return true
	}
	for _, f := range trackedFiles {
		if f.Name != name {
			continue
		}
		s := loadFile(tf.dir, name)
		tf.mu.Lock()
		tf.texts[name] = s
		tf.mu.Unlock()
		return true
	}
	return false
}

// WatchTextFiles starts an fsnotify watcher on the text directory. When a
// tracked file changes it is reloaded and immortals are told. The returned
// function stops the watcher.
func (g *Game) WatchTextFiles() (stop func(), err error) {
	dir := g.Texts.dir
	if dir == "" {
		return func() {}, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("textfiles: watch: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("textfiles: watch %s: %w", dir, err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				name := filepath.Base(event.Name)
				if !g.Texts.Reload(name) {
					continue
				}
				g.Log.Info("text file reloaded", zap.String("file", name))
				g.post(func() {
					g.wizlog("", fmt.Sprintf("텍스트 파일 %s을(를) 다시 읽었습니다.", name))
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				g.Log.Warn("text file watcher error", zap.Error(err))
			}
		}
	}()
	g.Log.Info("watching text directory", zap.String("dir", dir))
	return func() { watcher.Close() }, nil
}
