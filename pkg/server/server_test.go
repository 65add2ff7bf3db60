package server

import (
	"bufio"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLoopTruncatesLongLines(t *testing.T) {
	tg := newTestGame(t, func(gc *GameConf) { gc.MaxInputLength = 20 })
	s := NewServer(tg.g)

	conn, client := net.Pipe()
	defer conn.Close()
	d := NewDescriptor(tg.g.Conns.NextID(), conn)
	var sent []string
	d.SendFunc = func(msg string) { sent = append(sent, msg) }

	done := make(chan struct{})
	go func() {
		s.readLoop(d)
		close(done)
	}()

	_, err := client.Write([]byte(strings.Repeat("가", 4000) + "\r\n"))
	require.NoError(t, err)
	_, err = client.Write([]byte("봐\r\n끝"))
	require.NoError(t, err)
	client.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("read loop did not finish")
	}

	var lines []string
	for {
		line, _, ok := d.Input.Pop()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	require.Equal(t, []string{strings.Repeat("가", 6), "봐", "끝"}, lines, "the connection survives an over-long line")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "너무 길어서")
}

func TestReadLine(t *testing.T) {
	r := bufio.NewReaderSize(strings.NewReader(strings.Repeat("x", 40)+"\nshort\r\ntail"), 16)

	line, truncated, err := readLine(r)
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Equal(t, strings.Repeat("x", 16), string(line))

	line, truncated, err = readLine(r)
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Equal(t, "short", string(trimEOL(line)))

	line, _, err = readLine(r)
	require.NoError(t, err)
	assert.Equal(t, "tail", string(line))

	_, _, err = readLine(r)
	assert.ErrorIs(t, err, io.EOF)
}
