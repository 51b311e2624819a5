// Command studio drives the resume pipeline from the terminal: it keeps the
// document and section order in a file-backed store, previews templates,
// and talks to the resume API for save and PDF export.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"resume-studio/internal/render"
	"resume-studio/internal/store"
	"resume-studio/internal/studio"
	"resume-studio/pkg/backend"
	"resume-studio/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logger.Setup()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		slog.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: studio <command> [args]

commands:
  login <username> <password>   obtain a session
  register <username> <password>
  generate <free text>       structure text into a resume seed
  pull                       fetch the server-side document into the store
  save                       push the stored document to the server
  preview [template]         export the rendered preview as HTML
  watch [out.html]           keep the preview file in sync with the store
  pdf <out.pdf> [template]   download a PDF
  templates                  list available templates`)
}

func run(command string, args []string) error {
	stateDir := os.Getenv("RESUME_STATE_DIR")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		stateDir = filepath.Join(home, ".resume-studio")
	}

	bridge, err := store.NewFileStore(stateDir)
	if err != nil {
		return err
	}

	engine, err := render.NewEngine()
	if err != nil {
		return err
	}

	client := backend.NewClient(backend.NewTokens(bridge))
	st := studio.New(bridge, engine, client)
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch command {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("login needs <username> <password>")
		}
		if err := client.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("logged in")
		return nil

	case "register":
		if len(args) != 2 {
			return fmt.Errorf("register needs <username> <password>")
		}
		if err := client.Register(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("registered; now log in")
		return nil

	case "generate":
		if len(args) == 0 {
			return fmt.Errorf("generate needs the free-form text")
		}
		doc, err := client.GenerateFromText(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := studio.StoreDocument(bridge, doc); err != nil {
			return err
		}
		fmt.Println("seed stored")
		return nil

	case "pull":
		doc, err := client.FetchResume(ctx)
		if err != nil {
			return err
		}
		if err := studio.StoreDocument(bridge, doc); err != nil {
			return err
		}
		fmt.Println("document pulled")
		return nil

	case "save":
		if err := st.SaveAndApply(ctx); err != nil {
			return err
		}
		fmt.Println(st.Status())
		return nil

	case "preview":
		if len(args) > 0 {
			if err := st.SelectTemplate(args[0]); err != nil {
				return err
			}
		}
		path, err := st.ExportHTML(os.TempDir())
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	case "watch":
		out := filepath.Join(os.TempDir(), "resume-preview.html")
		if len(args) > 0 {
			out = args[0]
		}
		write := func() {
			if err := os.WriteFile(out, []byte(st.Preview()), 0o644); err != nil {
				slog.Warn("failed to write preview", "path", out, "error", err)
			}
		}
		write()
		st.OnUpdate = write
		st.Start()

		// the watcher picks up writes from editors running in other
		// processes; in-process writes already notify through the bridge
		done := make(chan struct{})
		go bridge.Watch(done, 300*time.Millisecond, store.KeyDocument, store.KeyOrder)
		defer close(done)

		fmt.Println(out)
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		return nil

	case "pdf":
		if len(args) < 1 {
			return fmt.Errorf("pdf needs the output path")
		}
		if len(args) > 1 {
			if err := st.SelectTemplate(args[1]); err != nil {
				return err
			}
		}
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		if err := st.DownloadPDF(ctx, f); err != nil {
			return err
		}
		fmt.Println(st.Status())
		return nil

	case "templates":
		for _, key := range st.Templates() {
			fmt.Println(key)
		}
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}
