package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/bodgit/sitf"
	"github.com/bodgit/sitf/compress"
	"github.com/bodgit/sitf/preview"
	"github.com/bodgit/sitf/store"
	"github.com/urfave/cli/v2"
)

const defaultDB = "sitf.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// converter builds a Converter from the global flags, opening the library
// database when withDB is set. The returned function releases it.
func converter(c *cli.Context, withDB bool, options ...sitf.Option) (*sitf.Converter, func(), error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	options = append(options,
		sitf.WithWorkers(c.Int("workers")),
		sitf.WithStrict(c.Bool("strict")),
	)

	if !withDB {
		return sitf.New(logger, options...), func() {}, nil
	}

	t, err := compress.ParseType(c.String("compression"))
	if err != nil {
		return nil, nil, err
	}

	codec, err := compress.New(t)
	if err != nil {
		return nil, nil, err
	}

	db, err := store.Open(c.String("db"), codec)
	if err != nil {
		return nil, nil, err
	}

	return sitf.New(logger, append(options, sitf.WithDB(db))...), func() { db.Close() }, nil
}

// needArgs prints the usage of the current command and returns an exit
// error if it was given fewer than n arguments.
func needArgs(c *cli.Context, n int) error {
	if c.NArg() < n {
		if err := cli.ShowSubcommandHelp(c); err != nil {
			return err
		}
		return cli.Exit("", 1)
	}
	return nil
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "sitf"
	app.Usage = "Simple Image Text Format conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"SITF_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to library database",
		},
		&cli.StringFlag{
			Name:    "compression",
			EnvVars: []string{"SITF_COMPRESSION"},
			Value:   compress.Zstd.String(),
			Usage:   "compression of documents added to the library (none, zstd, s2, lz4)",
		},
		&cli.IntFlag{
			Name:    "workers",
			EnvVars: []string{"SITF_WORKERS"},
			Usage:   "number of worker goroutines, defaults to the number of CPUs",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "fail on malformed SITF input rather than skipping it",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "to-sitf",
			Usage:     "Convert an image to SITF",
			ArgsUsage: "INPUT OUTPUT [METADATA]",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Usage: "reduce the image to at most this many colors first",
				},
			},
			Action: func(c *cli.Context) error {
				if err := needArgs(c, 2); err != nil {
					return err
				}

				s, done, err := converter(c, false, sitf.WithColors(c.Int("colors")))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				if err := s.ToSITF(c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "to-png",
			Usage:     "Convert a SITF document to PNG",
			ArgsUsage: "INPUT OUTPUT",
			Action: func(c *cli.Context) error {
				if err := needArgs(c, 2); err != nil {
					return err
				}

				s, done, err := converter(c, false)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				if err := s.ToPNG(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "view",
			Usage:     "Render a SITF document to a resampled PNG",
			ArgsUsage: "INPUT OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "output width, 0 to derive it from the height",
				},
				&cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "output height, 0 to derive it from the width",
				},
				&cli.StringFlag{
					Name:  "filter",
					Value: preview.Nearest.String(),
					Usage: "resampling filter (nearest, bilinear, cubic, lanczos)",
				},
			},
			Action: func(c *cli.Context) error {
				if err := needArgs(c, 2); err != nil {
					return err
				}

				f, err := preview.ParseFilter(c.String("filter"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				s, done, err := converter(c, false)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				if err := s.Preview(c.Args().Get(0), c.Args().Get(1), c.Int("width"), c.Int("height"), f); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "scan",
			Usage:     "Convert every PNG image under a directory to SITF",
			ArgsUsage: "DIRECTORY [METADATA]",
			Action: func(c *cli.Context) error {
				if err := needArgs(c, 1); err != nil {
					return err
				}

				s, done, err := converter(c, false)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				if err := s.Scan(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "import",
			Usage:     "Add SITF documents to the library",
			ArgsUsage: "FILE...",
			Action: func(c *cli.Context) error {
				if err := needArgs(c, 1); err != nil {
					return err
				}

				s, done, err := converter(c, true)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				if err := s.Import(c.Args().Slice()...); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "export",
			Usage:     "Write a SITF document from the library",
			ArgsUsage: "NAME OUTPUT",
			Action: func(c *cli.Context) error {
				if err := needArgs(c, 2); err != nil {
					return err
				}

				s, done, err := converter(c, true)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				if err := s.Export(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "thumbnail",
			Usage:     "Write the thumbnail of a library document as PNG",
			ArgsUsage: "NAME OUTPUT",
			Action: func(c *cli.Context) error {
				if err := needArgs(c, 2); err != nil {
					return err
				}

				s, done, err := converter(c, true)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				if err := s.Thumbnail(c.Args().Get(0), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List the documents in the library",
			Action: func(c *cli.Context) error {
				s, done, err := converter(c, true)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				list, err := s.List()
				if err != nil {
					return cli.Exit(err, 1)
				}

				w := tabwriter.NewWriter(c.App.Writer, 0, 8, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tSIZE\tHASH\tCOMPRESSION\tBYTES\tMETADATA")
				for _, info := range list {
					fmt.Fprintf(w, "%s\t%dx%d\t%s\t%s\t%d\t%s\n", info.Name, info.Width, info.Height, info.Hash, info.Compression, info.Size, info.Metadata)
				}

				return w.Flush()
			},
		},
		{
			Name:      "delete",
			Usage:     "Remove a document from the library",
			ArgsUsage: "NAME",
			Action: func(c *cli.Context) error {
				if err := needArgs(c, 1); err != nil {
					return err
				}

				s, done, err := converter(c, true)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer done()

				if err := s.Delete(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	app.Action = func(c *cli.Context) error {
		if c.NArg() > 0 {
			fmt.Fprintf(c.App.ErrWriter, "Unknown mode: %s\n", c.Args().First())
			return cli.Exit("run with --help for usage", 1)
		}
		if err := cli.ShowAppHelp(c); err != nil {
			return err
		}
		return cli.Exit("", 1)
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
