/*
Package sitf is a library for converting images to and from the Simple Image
Text Format and keeping a library of them.
*/
package sitf

import (
	"errors"
	"log"
	"runtime"

	"github.com/bodgit/sitf/codec"
	"github.com/bodgit/sitf/store"
)

var (
	errNoDB        = errors.New("no library database")
	errNoThumbnail = errors.New("empty image has no thumbnail")
)

// Converter converts images between PNG and SITF.
type Converter struct {
	logger *log.Logger
	db     *store.DB

	workers   int
	strict    bool
	colors    int
	maxPixels int
}

// Option configures a Converter.
type Option func(*Converter)

// WithDB sets the library database used by Import, Export, List and Delete.
func WithDB(db *store.DB) Option {
	return func(c *Converter) {
		c.db = db
	}
}

// WithWorkers sets the number of goroutines used per conversion and by Scan.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.workers = n
	}
}

// WithStrict makes decoding SITF fail on anything it would otherwise skip.
func WithStrict(strict bool) Option {
	return func(c *Converter) {
		c.strict = strict
	}
}

// WithColors reduces images to at most n colors before encoding them.
func WithColors(n int) Option {
	return func(c *Converter) {
		c.colors = n
	}
}

// WithMaxPixels limits the size of images decoded from SITF.
func WithMaxPixels(n int) Option {
	return func(c *Converter) {
		c.maxPixels = n
	}
}

// New returns a Converter logging to logger.
func New(logger *log.Logger, options ...Option) *Converter {
	c := &Converter{
		logger:    logger,
		maxPixels: codec.DefaultMaxPixels,
	}
	for _, o := range options {
		o(c)
	}
	if c.workers < 1 {
		c.workers = runtime.NumCPU()
	}
	return c
}

func (c *Converter) codecOptions() []codec.Option {
	return []codec.Option{
		codec.Workers(c.workers),
		codec.Strict(c.strict),
		codec.MaxPixels(c.maxPixels),
	}
}
