/*
Package store implements a SQLite backed library of SITF documents.

Documents are de-duplicated by a hash of their text so storing the same image
under several names only keeps one copy. Each document is stored compressed
along with its dimensions, metadata and a small PNG thumbnail.
*/
package store

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"image/png"

	"github.com/bodgit/sitf/codec"
	"github.com/bodgit/sitf/compress"
	"github.com/cespare/xxhash/v2"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/nfnt/resize"
)

// ThumbnailSize is the largest width or height of a stored thumbnail.
const ThumbnailSize = 64

// ErrNotFound is returned when no document is stored under a name.
var ErrNotFound = errors.New("store: not found")

// DB is the document library.
type DB struct {
	db    *sql.DB
	codec compress.Codec
}

// Info describes a stored document.
type Info struct {
	Name        string
	Hash        string
	Width       int
	Height      int
	Metadata    string
	Compression compress.Type
	Size        int
}

// Open opens or creates the library in file. New documents are compressed
// with c.
func Open(file string, c compress.Codec) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS document (id INTEGER PRIMARY KEY NOT NULL, hash TEXT NOT NULL UNIQUE, width INTEGER NOT NULL, height INTEGER NOT NULL, metadata TEXT NOT NULL, compression INTEGER NOT NULL, size INTEGER NOT NULL, data BLOB NOT NULL, thumbnail BLOB)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS image (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, document_id INTEGER NOT NULL, FOREIGN KEY(document_id) REFERENCES document(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db:    db,
		codec: c,
	}, nil
}

// Close closes the library.
func (db *DB) Close() error {
	return db.db.Close()
}

// Hash returns the key used to de-duplicate text.
func Hash(text string) string {
	return fmt.Sprintf("%016X", xxhash.Sum64String(text))
}

func thumbnail(g *codec.Grid) ([]byte, error) {
	if g.Width == 0 || g.Height == 0 {
		return nil, nil
	}
	m := resize.Thumbnail(ThumbnailSize, ThumbnailSize, g.Image(), resize.NearestNeighbor)
	b := new(bytes.Buffer)
	if err := png.Encode(b, m); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (db *DB) addDocument(text string) (int64, error) {
	hash := Hash(text)

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM document WHERE hash = ?", hash).Scan(&id); err {
	case sql.ErrNoRows:
		res, err := codec.DecodeString(text)
		if err != nil {
			return 0, err
		}
		g, err := res.Grid()
		if err != nil {
			return 0, err
		}
		thumb, err := thumbnail(g)
		if err != nil {
			return 0, err
		}
		data, err := db.codec.Compress([]byte(text))
		if err != nil {
			return 0, err
		}
		result, err := db.db.Exec("INSERT INTO document (hash, width, height, metadata, compression, size, data, thumbnail) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", hash, g.Width, g.Height, res.Metadata, db.codec.Type(), len(text), data, thumb)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Add stores the SITF document text under name, replacing any document
// already stored under that name, and returns the id of the entry.
func (db *DB) Add(name, text string) (int64, error) {
	doc, err := db.addDocument(text)
	if err != nil {
		return 0, err
	}

	var id int64
	switch err := db.db.QueryRow("SELECT id FROM image WHERE name = ?", name).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO image (name, document_id) VALUES (?, ?)", name, doc)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		if _, err := db.db.Exec("UPDATE image SET document_id = ? WHERE id = ?", doc, id); err != nil {
			return 0, err
		}
		return id, db.prune()
	default:
		return 0, err
	}
}

// Get returns the SITF document text stored under name.
func (db *DB) Get(name string) (string, error) {
	var typ compress.Type
	var data []byte
	switch err := db.db.QueryRow("SELECT d.compression, d.data FROM image AS i JOIN document AS d ON i.document_id = d.id WHERE i.name = ?", name).Scan(&typ, &data); err {
	case sql.ErrNoRows:
		return "", ErrNotFound
	case nil:
		c, err := compress.New(typ)
		if err != nil {
			return "", err
		}
		b, err := c.Decompress(data)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", err
	}
}

// Thumbnail returns the PNG thumbnail of the document stored under name.
// Empty images have no thumbnail and return nil.
func (db *DB) Thumbnail(name string) ([]byte, error) {
	var thumb []byte
	switch err := db.db.QueryRow("SELECT d.thumbnail FROM image AS i JOIN document AS d ON i.document_id = d.id WHERE i.name = ?", name).Scan(&thumb); err {
	case sql.ErrNoRows:
		return nil, ErrNotFound
	case nil:
		return thumb, nil
	default:
		return nil, err
	}
}

// List returns every stored document ordered by name.
func (db *DB) List() ([]Info, error) {
	rows, err := db.db.Query("SELECT i.name, d.hash, d.width, d.height, d.metadata, d.compression, d.size FROM image AS i JOIN document AS d ON i.document_id = d.id ORDER BY i.name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Info
	for rows.Next() {
		var i Info
		if err := rows.Scan(&i.Name, &i.Hash, &i.Width, &i.Height, &i.Metadata, &i.Compression, &i.Size); err != nil {
			return nil, err
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// Delete removes the document stored under name.
func (db *DB) Delete(name string) error {
	result, err := db.db.Exec("DELETE FROM image WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return db.prune()
}

// prune removes documents no longer referenced by any name.
func (db *DB) prune() error {
	_, err := db.db.Exec("DELETE FROM document WHERE id NOT IN (SELECT document_id FROM image)")
	return err
}
