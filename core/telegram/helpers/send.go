package helpers

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/dunyajewellery/catalogbot/core/telegram/sender"
)

var globalSender atomic.Pointer[sender.Sender]

// SetSender wires the sender used by the helpers; nil calls the API directly.
func SetSender(s *sender.Sender) {
	globalSender.Store(s)
}

func send(c tele.Context, action string, run func() error) error {
	s := globalSender.Load()
	if s == nil {
		return run()
	}
	return s.Do(BuildContext(c), action, run)
}

func mdOptions(markup []*tele.ReplyMarkup) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown}
	if len(markup) > 0 {
		opts.ReplyMarkup = markup[0]
	}
	return opts
}

// SendMD sends a Markdown message with an optional reply markup.
func SendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := mdOptions(markup)
	return send(c, "send.text", func() error { return c.Send(text, opts) })
}

// EditOrSendMD edits the callback's message, or sends a new one when there is
// nothing to edit.
func EditOrSendMD(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := mdOptions(markup)
	return send(c, "edit.text", func() error { return c.EditOrSend(text, opts) })
}

// SendPhotoMD sends a photo by Telegram file id with a Markdown caption.
func SendPhotoMD(c tele.Context, fileID, caption string, markup ...*tele.ReplyMarkup) error {
	photo := &tele.Photo{File: tele.File{FileID: fileID}, Caption: caption}
	opts := mdOptions(markup)
	return send(c, "send.photo", func() error { return c.Send(photo, opts) })
}

// maxAlbum is the Bot API limit for one media group.
const maxAlbum = 10

// SendAlbumMD sends photos as albums of at most ten; the caption goes on the
// first photo. Larger sets are split evenly so no album is left with a single
// photo, which sendMediaGroup rejects.
func SendAlbumMD(c tele.Context, fileIDs []string, caption string) error {
	for n, chunk := range albumChunks(fileIDs) {
		album := make(tele.Album, 0, len(chunk))
		for i, id := range chunk {
			p := &tele.Photo{File: tele.File{FileID: id}}
			if n == 0 && i == 0 {
				p.Caption = caption
			}
			album = append(album, p)
		}
		err := send(c, "send.album", func() error {
			return c.SendAlbum(album, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// albumChunks splits ids into the fewest groups of at most maxAlbum with
// sizes differing by at most one: 11 becomes 6+5, 21 becomes 7+7+7.
func albumChunks(ids []string) [][]string {
	if len(ids) == 0 {
		return nil
	}
	k := (len(ids) + maxAlbum - 1) / maxAlbum
	size, extra := len(ids)/k, len(ids)%k
	chunks := make([][]string, 0, k)
	for start := 0; start < len(ids); {
		end := start + size
		if len(chunks) < extra {
			end++
		}
		chunks = append(chunks, ids[start:end])
		start = end
	}
	return chunks
}
