package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/checkpoint"
)

func runCheckpoint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: canvas checkpoint save|list|restore|prune [flags] <project.ptr>")
	}
	fs := flag.NewFlagSet("checkpoint "+args[0], flag.ExitOnError)
	db := fs.String("db", "checkpoints.db", "checkpoint database")
	label := fs.String("label", "", "label for save")
	id := fs.String("id", "", "checkpoint to restore (default: latest)")
	keep := fs.Int("keep", 10, "checkpoints kept by prune")
	rest, err := parse(fs, args[1:], 1, "<project.ptr>")
	if err != nil {
		return err
	}
	project := rest[0]

	docID, err := projectID(project)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := checkpoint.Open(ctx, *db)
	if err != nil {
		return err
	}
	defer store.Close()

	switch args[0] {
	case "save":
		st := canvas.NewStack()
		if err := canvas.LoadProject(project, st); err != nil {
			return err
		}
		cp, err := store.Save(ctx, docID, *label, st)
		if err != nil {
			return err
		}
		log.Printf("saved checkpoint %s", cp.ID)

	case "list":
		list, err := store.List(ctx, docID)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tLAYERS\tSIZE\tLABEL")
		for _, cp := range list {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%dx%d\t%s\n",
				cp.ID, cp.CreatedAt.Local().Format(time.DateTime), cp.Layers, cp.Width, cp.Height, cp.Label)
		}
		return tw.Flush()

	case "restore":
		var target uuid.UUID
		if *id == "" {
			cp, err := store.Latest(ctx, docID)
			if err != nil {
				return err
			}
			target = cp.ID
		} else if target, err = uuid.Parse(*id); err != nil {
			return fmt.Errorf("invalid checkpoint id: %w", err)
		}
		st := canvas.NewStack()
		if err := store.Restore(ctx, target, st); err != nil {
			return err
		}
		if err := canvas.SaveProject(project, st); err != nil {
			return err
		}
		log.Printf("restored %s from checkpoint %s", project, target)

	case "prune":
		n, err := store.Prune(ctx, docID, *keep)
		if err != nil {
			return err
		}
		log.Printf("removed %d checkpoints", n)

	default:
		return fmt.Errorf("unknown checkpoint command %q", args[0])
	}
	return nil
}

// projectID derives a stable document ID from the project's absolute path.
func projectID(path string) (uuid.UUID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(abs))), nil
}
