// Command tiv prints images to the terminal using Unicode block graphics
// and ANSI colors, or as HTML.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/wbrown/tiv"
	"github.com/wbrown/tiv/imageutil"
	"golang.org/x/term"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// errUsage marks errors caused by bad command line arguments.
var errUsage = errors.New("usage")

type config struct {
	source    string
	stdin     bool
	mode      tiv.ColorMode
	html      bool
	maxWidth  int
	maxHeight int
	grayscale bool
	filter    imageutil.Filter
	workers   int
	output    string
	fontPath  string
	fontScale int
	verbose   bool
}

func main() {
	log.SetPrefix("tiv: ")
	log.SetFlags(0)
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout))
}

// run executes the command and returns the process exit status: 0 on
// success, 1 if any image failed and 2 for usage errors.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) int {
	cfg, err := parseArgs(args, stdout)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		log.Print(err)
		return 2
	}

	opts := []tiv.RendererOption{
		tiv.WithColorMode(cfg.mode),
		tiv.WithOutput(outputKind(cfg.html)),
		tiv.WithWorkers(cfg.workers),
	}
	if cfg.fontPath != "" {
		font, err := tiv.LoadFont(fontFile(cfg.fontPath), cfg.fontScale)
		if err != nil {
			log.Print(err)
			return 1
		}
		opts = append(opts, tiv.WithFont(font))
	}
	r := tiv.NewRenderer(opts...)

	out, err := openOutput(cfg.output, stdout)
	if err != nil {
		log.Print(err)
		return 1
	}

	status := 0
	if cfg.stdin {
		status = convertAll(ctx, cfg, r, stdin, out)
	} else if err := convert(ctx, cfg, r, cfg.source, out); err != nil {
		log.Print(err)
		status = 1
	}

	if err := out.Close(); err != nil {
		log.Printf("failed to write output: %v", err)
		status = 1
	}
	return status
}

func parseArgs(args []string, stdout io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("tiv", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: tiv [flags] <image path or URL>\n"+
			"       tiv [flags] -stdin\n\nFlags:\n")
		fs.PrintDefaults()
	}

	mode := fs.String("mode", "256",
		"ANSI color mode: 256 or 24bit")
	fs.BoolVar(&cfg.stdin, "stdin", false,
		"Read image paths or URLs from standard input, one per line, until a blank line")
	fs.BoolVar(&cfg.html, "html", false,
		"Generate HTML instead of ANSI text")
	fs.IntVar(&cfg.maxWidth, "max_width", defaultWidth,
		"Maximum output width in characters (default: terminal width)")
	fs.IntVar(&cfg.maxHeight, "max_height", defaultHeight,
		"Maximum output height in characters (default: terminal height)")
	fs.BoolVar(&cfg.grayscale, "grayscale", false,
		"Convert the image to grayscale before rendering")
	filter := fs.String("filter", "lanczos",
		"Resampling filter: lanczos, catmullrom, bilinear or nearest")
	fs.IntVar(&cfg.workers, "workers", 1,
		"Number of cell rows analyzed concurrently")
	fs.StringVar(&cfg.output, "o", "",
		"Output file (.gz and .zst are compressed; .png, .gif and .jpg write a preview image)")
	fs.StringVar(&cfg.fontPath, "font", "",
		"TTF font for image previews; 'gomono' selects the embedded Go Mono (default: geometric blocks)")
	fs.IntVar(&cfg.fontScale, "fontscale", 1,
		"Font scaling factor for image previews (1 = 8x16 pixels per cell)")
	fs.BoolVar(&cfg.verbose, "v", false,
		"Log timing for each image")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch *mode {
	case tiv.Palette256.String():
		cfg.mode = tiv.Palette256
	case tiv.TrueColor.String():
		cfg.mode = tiv.TrueColor
	default:
		return nil, fmt.Errorf("%w: invalid mode %q (options: 256, 24bit)", errUsage, *mode)
	}

	var err error
	if cfg.filter, err = imageutil.ParseFilter(*filter); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if cfg.maxWidth < 1 || cfg.maxHeight < 1 {
		return nil, fmt.Errorf("%w: max_width and max_height must be positive", errUsage)
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})
	if w, h, ok := terminalSize(stdout); ok {
		if !explicit["max_width"] {
			cfg.maxWidth = w
		}
		if !explicit["max_height"] {
			cfg.maxHeight = h
		}
	}

	preview := imageutil.IsSaveFormat(cfg.output)
	if cfg.fontPath != "" && !preview {
		return nil, fmt.Errorf("%w: -font requires an image output", errUsage)
	}

	switch {
	case cfg.stdin && fs.NArg() > 0:
		return nil, fmt.Errorf("%w: -stdin does not take an image argument", errUsage)
	case cfg.stdin && preview:
		return nil, fmt.Errorf("%w: a preview image holds a single image; -stdin cannot be used with it", errUsage)
	case cfg.stdin:
		return cfg, nil
	case fs.NArg() == 0:
		fs.Usage()
		return nil, fmt.Errorf("%w: no image given", errUsage)
	case fs.NArg() > 1:
		return nil, fmt.Errorf("%w: too many arguments", errUsage)
	}

	cfg.source = fs.Arg(0)
	if err := checkSource(cfg.source); err != nil {
		return nil, err
	}
	return cfg, nil
}

// checkSource rejects local sources that are missing or not regular files.
func checkSource(source string) error {
	if imageutil.IsURL(source) {
		return nil
	}
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("%w: invalid image source: %v", errUsage, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", errUsage, source)
	}
	return nil
}

// terminalSize returns the size of w in characters when it is a terminal.
func terminalSize(w io.Writer) (width, height int, ok bool) {
	f, isFile := w.(*os.File)
	if !isFile || !term.IsTerminal(int(f.Fd())) {
		return 0, 0, false
	}
	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil || width < 1 || height < 1 {
		return 0, 0, false
	}
	return width, height, true
}

// fontFile maps the -font value to a LoadFont path.
func fontFile(name string) string {
	if name == "gomono" {
		return ""
	}
	return name
}

func outputKind(html bool) tiv.OutputKind {
	if html {
		return tiv.OutputHTML
	}
	return tiv.OutputTerminal
}

// convertAll renders every source read from in, stopping at the first blank
// line or end of input. Failed sources are logged and skipped.
func convertAll(ctx context.Context, cfg *config, r *tiv.Renderer, in io.Reader, out *output) int {
	status := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		source := strings.TrimSpace(scanner.Text())
		if source == "" {
			break
		}
		if err := convert(ctx, cfg, r, source, out); err != nil {
			log.Print(err)
			status = 1
			if errors.Is(err, errWrite) {
				return status
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("failed to read standard input: %v", err)
		status = 1
	}
	return status
}

// convert loads source, fits it to the configured size and writes it to
// out.
func convert(ctx context.Context, cfg *config, r *tiv.Renderer, source string, out *output) error {
	start := time.Now()
	img, err := imageutil.Load(ctx, source)
	if err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	loaded := time.Now()

	fitted := imageutil.Fit(img,
		cfg.maxWidth*tiv.CellWidth, cfg.maxHeight*tiv.CellHeight,
		cfg.grayscale, cfg.filter)
	buf := tiv.PixelBufferFromImage(fitted.RGBA)

	if out.preview != "" {
		err = imageutil.SaveImage(r.RenderImage(buf), out.preview)
	} else {
		err = r.RenderTo(out, buf)
	}
	if err != nil {
		return fmt.Errorf("%s: %w: %v", source, errWrite, err)
	}

	if cfg.verbose {
		log.Printf("%s: %dx%d -> %dx%d cells (load %v, render %v)",
			source, img.Width(), img.Height(), buf.Columns(), buf.Rows(),
			loaded.Sub(start), time.Since(loaded))
	}
	return nil
}
