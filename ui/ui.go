package ui

import (
	"context"
	"errors"
	"fmt"
)

// MessageWidth is the number of characters shown on one page of an item.
const MessageWidth = 34

var (
	ErrNoData  = errors.New("ui: no data")
	ErrUnknown = errors.New("ui: unknown")
)

// Items is anything that can be shown to the user one item at a time.
// RenderItem returns the requested page of item together with the number
// of pages the item spans.
type Items interface {
	NumItems() (int, error)
	RenderItem(item, page int) (title, message string, pages int, err error)
}

// Viewable is a prompt with callbacks run on the user's answer. Both
// callbacks write into out and return the number of bytes written along
// with the status word of the reply.
type Viewable interface {
	Items
	Accept(out []byte) (int, uint16)
	Reject(out []byte) (int, uint16)
}

// Reviewer shows items to the user and reports whether they were approved.
type Reviewer interface {
	Review(ctx context.Context, items Items) (bool, error)
}

// Page returns page of message along with the page count. An empty
// message still has one page.
func Page(message string, page int) (string, int, error) {

	pages := (len(message) + MessageWidth - 1) / MessageWidth
	if pages == 0 {
		pages = 1
	}

	if page < 0 || page >= pages {
		return "", pages, ErrNoData
	}

	start := page * MessageWidth
	end := start + MessageWidth
	if end > len(message) {
		end = len(message)
	}

	return message[start:end], pages, nil

}

// Item is a single rendered page.
type Item struct {
	Title   string
	Message string
	Page    int
	Pages   int
}

func (item Item) String() string {

	if item.Pages > 1 {
		return fmt.Sprintf("%s (%d/%d): %s", item.Title, item.Page+1, item.Pages, item.Message)
	}

	return fmt.Sprintf("%s: %s", item.Title, item.Message)

}

// Walk renders every page of every item.
func Walk(items Items) ([]Item, error) {

	count, err := items.NumItems()
	if err != nil {
		return nil, err
	}

	var out []Item

	for i := 0; i < count; i++ {

		for page, pages := 0, 1; page < pages; page++ {

			title, message, n, err := items.RenderItem(i, page)
			if err != nil {
				return out, fmt.Errorf("item %d page %d: %w", i, page, err)
			}

			pages = n
			out = append(out, Item{Title: title, Message: message, Page: page, Pages: n})

		}

	}

	return out, nil

}

// Messages joins the pages of every item, keyed by position.
func Messages(items Items) ([][2]string, error) {

	pages, err := Walk(items)
	if err != nil {
		return nil, err
	}

	var out [][2]string

	for _, page := range pages {
		if page.Page == 0 {
			out = append(out, [2]string{page.Title, page.Message})
			continue
		}
		out[len(out)-1][1] += page.Message
	}

	return out, nil

}
