package handler

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"
)

// sendHTML buffers a template render so a failed render never leaves a partial page
func sendHTML(c *fiber.Ctx, render func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
