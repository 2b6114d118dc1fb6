package sitf

import (
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/bodgit/sitf/store"
)

// Import adds each SITF file to the library, named after the file without
// its extension.
func (c *Converter) Import(files ...string) error {
	if c.db == nil {
		return errNoDB
	}

	for _, file := range files {
		b, err := ioutil.ReadFile(file)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		if _, err := c.db.Add(name, string(b)); err != nil {
			return err
		}

		c.logger.Printf("Imported \"%s\" as \"%s\"\n", file, name)
	}

	return nil
}

// Export writes the SITF document stored as name to out.
func (c *Converter) Export(name, out string) error {
	if c.db == nil {
		return errNoDB
	}

	text, err := c.db.Get(name)
	if err != nil {
		return err
	}

	if err := writeFile(out, func(w io.Writer) error {
		_, err := io.WriteString(w, text)
		return err
	}); err != nil {
		return err
	}

	c.logger.Printf("Exported \"%s\" => %s\n", name, out)
	return nil
}

// List returns every document in the library.
func (c *Converter) List() ([]store.Info, error) {
	if c.db == nil {
		return nil, errNoDB
	}
	return c.db.List()
}

// Delete removes the document stored as name from the library.
func (c *Converter) Delete(name string) error {
	if c.db == nil {
		return errNoDB
	}
	return c.db.Delete(name)
}

// Thumbnail writes the PNG thumbnail of the document stored as name to out.
func (c *Converter) Thumbnail(name, out string) error {
	if c.db == nil {
		return errNoDB
	}

	b, err := c.db.Thumbnail(name)
	if err != nil {
		return err
	}
	if b == nil {
		return errNoThumbnail
	}

	return writeFile(out, func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}
