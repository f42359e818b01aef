package ledsink

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"net"
	"testing"

	"github.com/phanxgames/boteyes"
)

func testImage() *image.Gray {
	img := boteyes.NewCanvas(3, 2)
	img.SetGray(0, 0, white)
	img.SetGray(2, 1, white)
	return img
}

var white = color.Gray{Y: 255}

func TestEncodeRowMajor(t *testing.T) {
	s := New(io.Discard, 2, RowMajor, nil)
	msg, err := s.Encode(testImage())
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{2, 0, 0, 18,
		255, 255, 255, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 255, 255, 255,
	}
	if !bytes.Equal(msg, want) {
		t.Errorf("msg = %v\nwant  %v", msg, want)
	}
}

func TestEncodeSerpentine(t *testing.T) {
	s := New(io.Discard, 0, Serpentine, nil)
	msg, err := s.Encode(testImage())
	if err != nil {
		t.Fatal(err)
	}
	// The lit pixel at (2,1) is the first LED of the reversed second row.
	want := []byte{0, 0, 0, 18,
		255, 255, 255, 0, 0, 0, 0, 0, 0,
		255, 255, 255, 0, 0, 0, 0, 0, 0,
	}
	if !bytes.Equal(msg, want) {
		t.Errorf("msg = %v\nwant  %v", msg, want)
	}
}

func TestEncodeSubImage(t *testing.T) {
	big := boteyes.NewCanvas(6, 4)
	sub := big.SubImage(image.Rect(3, 2, 6, 4)).(*image.Gray)
	sub.SetGray(3, 2, white)
	msg, err := New(io.Discard, 0, RowMajor, nil).Encode(sub)
	if err != nil {
		t.Fatal(err)
	}
	if len(msg) != 4+18 || msg[4] != 255 || msg[7] != 0 {
		t.Errorf("msg = %v", msg)
	}
}

func TestEncodeTooLarge(t *testing.T) {
	_, err := New(io.Discard, 0, RowMajor, nil).Encode(boteyes.NewCanvas(256, 128))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("err = %v, want ErrFrameTooLarge", err)
	}
}

func TestSendSkipsRepeats(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, 0, RowMajor, nil)
	img := testImage()

	for i, want := range []bool{true, false, false} {
		sent, err := s.Send(img)
		if err != nil {
			t.Fatal(err)
		}
		if sent != want {
			t.Errorf("send %d: sent = %v, want %v", i, sent, want)
		}
	}
	img.SetGray(1, 0, white)
	if sent, _ := s.Send(img); !sent {
		t.Error("changed frame was not sent")
	}
	s.Reset()
	if sent, _ := s.Send(img); !sent {
		t.Error("frame after Reset was not sent")
	}
	if sent, skipped := s.Stats(); sent != 3 || skipped != 2 {
		t.Errorf("stats = %d sent, %d skipped", sent, skipped)
	}
	if buf.Len() != 3*22 {
		t.Errorf("wrote %d bytes, want %d", buf.Len(), 3*22)
	}
}

func TestSendOverConn(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	got := make(chan []byte, 1)
	go func() {
		msg := make([]byte, 22)
		if _, err := io.ReadFull(server, msg); err != nil {
			got <- nil
			return
		}
		got <- msg
	}()

	if _, err := New(client, 1, RowMajor, nil).Send(testImage()); err != nil {
		t.Fatal(err)
	}
	msg := <-got
	if msg == nil || msg[0] != 1 || msg[3] != 18 || msg[4] != 255 {
		t.Errorf("received %v", msg)
	}
}

func TestSendWriteError(t *testing.T) {
	client, server := net.Pipe()
	server.Close()
	client.Close()
	if _, err := New(client, 0, RowMajor, nil).Send(testImage()); err == nil {
		t.Error("expected write error")
	}
}

func TestParseWiring(t *testing.T) {
	for in, want := range map[string]Wiring{"": RowMajor, "rows": RowMajor, "Snake": Serpentine, "serpentine": Serpentine} {
		got, err := ParseWiring(in)
		if err != nil || got != want {
			t.Errorf("ParseWiring(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseWiring("spiral"); err == nil {
		t.Error("spiral should not parse")
	}
}
