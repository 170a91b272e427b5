package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/freakbeast14/SafeChat/internal/avatar"
	"github.com/freakbeast14/SafeChat/internal/clipboard"
	"github.com/freakbeast14/SafeChat/internal/export"
	"github.com/freakbeast14/SafeChat/internal/source"
)

// cropCmd opens the interactive crop dialog and persists the applied
// avatar.
type cropCmd struct {
	file          string
	fromClipboard bool
	output        string
	format        string
	quality       int
	copyResult    bool
	*root
	fs *flag.FlagSet
}

func (c *cropCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseCropCmd(args []string, r *root) (*cropCmd, error) {
	fs := flag.NewFlagSet("crop", flag.ExitOnError)
	c := &cropCmd{root: r, fs: fs}
	fs.StringVar(&c.file, "file", "", "image file or http(s) URL to crop")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "read the source image from the clipboard")
	fs.StringVar(&c.output, "output", "", "output file path (default save_dir/avatar_<id>)")
	fs.StringVar(&c.format, "format", "", "output format: jpeg or webp (default from config)")
	fs.IntVar(&c.quality, "quality", 0, "lossy quality 1-100 (default from config)")
	fs.BoolVar(&c.copyResult, "copy", false, "also copy the applied avatar to the clipboard")
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.file == "" && !c.fromClipboard {
		return nil, fmt.Errorf("either -file or -from-clipboard is required")
	}
	if c.file != "" && c.fromClipboard {
		return nil, fmt.Errorf("-file and -from-clipboard cannot be combined")
	}
	return c, nil
}

func (c *cropCmd) spec() (export.Spec, error) {
	spec := c.root.config.Spec()
	if c.format != "" {
		f, err := export.ParseFormat(c.format)
		if err != nil {
			return spec, err
		}
		spec.Format = f
	}
	if c.quality != 0 {
		if c.quality < 1 || c.quality > 100 {
			return spec, fmt.Errorf("quality %d out of range", c.quality)
		}
		spec.Quality = c.quality
	}
	return spec, nil
}

func (c *cropCmd) Run() error {
	spec, err := c.spec()
	if err != nil {
		return err
	}

	loader, err := source.NewLoader()
	if err != nil {
		return fmt.Errorf("source loader: %w", err)
	}
	var img image.Image
	if c.fromClipboard {
		img, err = loader.LoadClipboard()
	} else {
		img, err = loader.Load(c.file)
	}
	if err != nil {
		return fmt.Errorf("load source image: %w", err)
	}

	appliedCh := make(chan []byte, 1)
	d := avatar.New(
		avatar.WithImage(img),
		avatar.WithTheme(c.root.activeTheme),
		avatar.WithSpec(spec),
		avatar.WithOnApply(func(data []byte) { appliedCh <- data }),
	)
	d.Run()

	if !d.Applied() {
		// Dialog closed without applying.
		return nil
	}
	data := <-appliedCh

	path := c.output
	if path == "" {
		name := "avatar_" + source.Fingerprint(data) + spec.Format.Ext()
		path = filepath.Join(c.root.config.SaveDir, name)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write avatar: %w", err)
	}
	c.root.notifySave(path)
	c.root.notifyApply(filepath.Base(path))

	if c.copyResult {
		decoded, err := source.Decode(data)
		if err != nil {
			return fmt.Errorf("decode applied avatar: %w", err)
		}
		if err := clipboard.WriteImage(decoded); err != nil {
			return fmt.Errorf("copy avatar: %w", err)
		}
	}
	fmt.Printf("saved %s\n", path)
	return nil
}
