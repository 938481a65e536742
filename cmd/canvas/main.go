// Command canvas works with layered project files from the command line.
//
// Usage:
//
//	canvas [-v] <command> [flags] [args]
//
// Commands:
//
//	new        create a project with a white background
//	info       print the size and layers of a project
//	flatten    export the composite of a project as an image
//	import     turn an image into a single-layer project
//	checkpoint save, list, restore or prune project snapshots
//	settings   print the tool settings file
//	serve      start the HTTP preview server
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/editor"
	"github.com/gogpu/canvas/internal/server"
	"github.com/gogpu/canvas/tool"
)

func main() {
	log.SetFlags(0)
	verbose := flag.Bool("v", false, "log debug output to stderr")
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		canvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "new":
		err = runNew(args[1:])
	case "info":
		err = runInfo(args[1:])
	case "flatten":
		err = runFlatten(args[1:])
	case "import":
		err = runImport(args[1:])
	case "checkpoint":
		err = runCheckpoint(args[1:])
	case "settings":
		err = runSettings(args[1:])
	case "serve":
		err = runServe(args[1:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("canvas %s: %v", args[0], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: canvas [-v] new|info|flatten|import|checkpoint|settings|serve [flags] [args]")
	flag.PrintDefaults()
}

// parse parses a subcommand's flags and checks the number of positional
// arguments.
func parse(fs *flag.FlagSet, args []string, want int, names string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != want {
		return nil, fmt.Errorf("usage: canvas %s [flags] %s", fs.Name(), names)
	}
	return fs.Args(), nil
}

func runNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	w := fs.Int("width", 1280, "canvas width")
	h := fs.Int("height", 720, "canvas height")
	rest, err := parse(fs, args, 1, "<out.ptr>")
	if err != nil {
		return err
	}

	doc := editor.New()
	if err := doc.NewCanvas(*w, *h); err != nil {
		return err
	}
	path, err := doc.Save(rest[0])
	if err != nil {
		return err
	}
	log.Printf("created %s (%dx%d)", path, *w, *h)
	return nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	rest, err := parse(fs, args, 1, "<project.ptr>")
	if err != nil {
		return err
	}

	st := canvas.NewStack()
	if err := canvas.LoadProject(rest[0], st); err != nil {
		return err
	}
	size := st.Size()
	fmt.Printf("%s: %dx%d, %d layers\n", rest[0], size.X, size.Y, st.Len())

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tNAME\tVISIBLE\tOPACITY\tSIZE")
	for r := canvas.DisplayRow(0); int(r) < st.Len(); r++ {
		l := st.Layer(st.IndexOf(r))
		fmt.Fprintf(tw, "%d\t%s\t%v\t%.0f%%\t%dx%d\n",
			r, l.Name(), l.Visible(), l.Opacity()*100, l.Size().X, l.Size().Y)
	}
	return tw.Flush()
}

func runFlatten(args []string) error {
	fs := flag.NewFlagSet("flatten", flag.ExitOnError)
	quality := fs.Int("quality", 90, "JPEG quality (1-100)")
	rest, err := parse(fs, args, 2, "<project.ptr> <out.png|jpg|bmp|tiff>")
	if err != nil {
		return err
	}

	doc := editor.New()
	if err := doc.Open(rest[0]); err != nil {
		return err
	}
	path, err := doc.Export(rest[1], *quality)
	if err != nil {
		return err
	}
	log.Printf("exported %s", path)
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	rest, err := parse(fs, args, 2, "<image> <out.ptr>")
	if err != nil {
		return err
	}

	doc := editor.New()
	if err := doc.OpenImage(rest[0]); err != nil {
		return err
	}
	path, err := doc.Save(rest[1])
	if err != nil {
		return err
	}
	size := doc.Size()
	log.Printf("imported %s as %s (%dx%d)", rest[0], path, size.X, size.Y)
	return nil
}

func runSettings(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ExitOnError)
	path := fs.String("file", tool.DefaultSettingsPath(), "settings file")
	if _, err := parse(fs, args, 0, ""); err != nil {
		return err
	}

	s, err := tool.LoadSettings(*path)
	if err != nil {
		return err
	}
	fmt.Printf("file:       %s\n", *path)
	fmt.Printf("tool:       %s\n", s.Tool)
	fmt.Printf("brush size: %d\n", s.BrushSize)
	fmt.Printf("tolerance:  %d\n", s.Tolerance)
	fmt.Printf("primary:    %s\n", s.Primary.Hex())
	fmt.Printf("secondary:  %s\n", s.Secondary.Hex())
	for i, c := range s.History {
		fmt.Printf("history %d:  %s\n", i, c.Hex())
	}
	return nil
}

func runServe(args []string) error {
	cfg := server.LoadConfig()
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.Root, "root", cfg.Root, "directory holding project files")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "disable the access log")
	if _, err := parse(fs, args, 0, ""); err != nil {
		return err
	}
	return server.New(cfg).Listen()
}
