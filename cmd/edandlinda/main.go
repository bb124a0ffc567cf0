// Package main provides the edandlinda command-line client: sign in to the
// blog's API server, inspect role-gated navigation, and browse and download
// the technical manuals.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/ecsproull/edandlinda/internal/config"
	"github.com/ecsproull/edandlinda/internal/logging"
	"github.com/ecsproull/edandlinda/pkg/api"
	"github.com/ecsproull/edandlinda/pkg/download"
	"github.com/ecsproull/edandlinda/pkg/manuals"
	"github.com/ecsproull/edandlinda/pkg/nav"
	"github.com/ecsproull/edandlinda/pkg/router"
	"github.com/ecsproull/edandlinda/pkg/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	serverURL := flag.String("server", cfg.ServerURL, "API server URL")
	tokenFile := flag.String("token-file", cfg.TokenFile, "Persisted session location")
	outDir := flag.String("out", cfg.DownloadDir, "Directory downloads are saved to")
	timeout := flag.Duration("timeout", 30*time.Second, "Per-request timeout")

	flag.Parse()

	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	sess := session.New(session.NewFileStore(*tokenFile), *serverURL)
	sess.Bootstrap()
	if err := sess.Corrupted(); err != nil {
		fmt.Fprintln(os.Stderr, "Stored session is unusable and was discarded; sign in again.")
	}

	client := api.New(api.Config{
		BaseURL: *serverURL,
		Timeout: *timeout,
		Token:   sess.Token(),
		OnUnauthorized: func() {
			sess.Invalidate()
			fmt.Fprintln(os.Stderr, "Session expired; sign in again with 'edandlinda login'.")
		},
	})

	ctx := context.Background()
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "login":
		err = cmdLogin(ctx, client, sess, cmdArgs)
	case "logout":
		err = cmdLogout(ctx, client, sess)
	case "whoami":
		err = cmdWhoami(sess)
	case "menu":
		err = cmdMenu(sess)
	case "routes":
		err = cmdRoutes(sess)
	case "render":
		err = cmdRender(ctx, client, sess, cmdArgs)
	case "structure":
		err = cmdStructure(ctx, client, sess)
	case "models":
		err = cmdModels(ctx, client, sess, cmdArgs)
	case "files", "ls":
		err = cmdFiles(ctx, client, sess, cmdArgs)
	case "download", "get":
		err = cmdDownload(ctx, client, sess, *outDir, cmdArgs)
	case "preview":
		err = cmdPreview(ctx, client, sess, cmdArgs)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`edandlinda client

Usage: edandlinda [flags] <command> [args]

Flags:
  -server <url>      API server URL (default: $EDANDLINDA_SERVER_URL)
  -token-file <path> Persisted session location
  -out <dir>         Directory downloads are saved to
  -timeout <dur>     Per-request timeout (default: 30s)

Commands:
  login <username>             Sign in and persist the session
  logout                       Sign out and remove the persisted session
  whoami                       Show the signed-in identity
  menu                         Show the navigation menu for the current role
  routes                       Show every route and whether it would render
  render <path>                Resolve and render one route
  structure                    List year/make groups and their models
  models <yearMake>            List models for a year/make
  files <yearMake> <model>     List the files and directories for a model
  download <yearMake> <model> all              Download everything (admin)
  download <yearMake> <model> dir <name>       Download one directory
  download <yearMake> <model> <id> [id...]     Download files by listing id
  preview <yearMake> <model> <id>              Open a PDF in the system viewer
  help                         Show this help message

Examples:
  edandlinda login ed
  edandlinda files 2005_Fleetwood 39S
  edandlinda download 2005_Fleetwood 39S 2 5 7
  edandlinda -out ~/Downloads download 2005_Fleetwood 39S dir electrical`)
}

func cmdLogin(ctx context.Context, client *api.Client, sess *session.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: login <username>")
	}

	fmt.Print("Password: ")
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	resp, err := client.Login(ctx, api.Credentials{
		UserName:     args[0],
		UserPassword: strings.TrimSpace(password),
	})
	if err != nil {
		return err
	}
	if err := sess.Login(resp.AccessToken); err != nil {
		return err
	}
	client.SetToken(resp.AccessToken)

	id := sess.Identity()
	fmt.Printf("Signed in as %s (%s)\n", id.Name, id.Role)
	return nil
}

func cmdLogout(ctx context.Context, client *api.Client, sess *session.Store) error {
	// Best effort on the server side; the local session goes away regardless.
	if sess.Authenticated() {
		if err := client.Logout(ctx); err != nil {
			logging.Warn("server logout failed", zap.Error(err))
		}
	}
	if err := sess.Logout(); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func cmdWhoami(sess *session.Store) error {
	id := sess.Identity()
	if id == nil {
		fmt.Println("Not signed in")
		return nil
	}
	fmt.Printf("%s (%s)\n", id.Name, id.Role)
	return nil
}

func cmdMenu(sess *session.Store) error {
	items := nav.Filter(nav.SidebarItems, sess)
	if len(items) == 0 {
		fmt.Println("No menu items available")
		return nil
	}
	for _, it := range items {
		if it.Path != "" {
			fmt.Printf("%s  (%s)\n", it.Label, it.Path)
		} else {
			fmt.Println(it.Label)
		}
		for _, sub := range it.SubItems {
			fmt.Printf("  %s  (%s)\n", sub.Label, sub.Path)
		}
	}
	return nil
}

func cmdRoutes(sess *session.Store) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tOUTCOME")
	for _, def := range router.Defs {
		outcome := "render"
		switch router.Authorize(sess, def.Required) {
		case router.DecisionPending:
			outcome = "loading"
		case router.DecisionSignIn:
			outcome = "redirect " + router.SignInPath
		case router.DecisionUnauthorized:
			outcome = "redirect " + router.UnauthorizedPath
		}
		fmt.Fprintf(w, "%s\t%s\n", def.Path, outcome)
	}
	return w.Flush()
}

func cmdRender(ctx context.Context, client *api.Client, sess *session.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: render <path>")
	}
	r := newAppRouter(client, sess)
	out, err := r.Render(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// newAppRouter registers a text page for every application route. Pages are
// placeholders except the few backed by API reads; rendering exists to
// exercise the guard and isolation behavior, not to reproduce the site.
func newAppRouter(client *api.Client, sess *session.Store) *router.Router {
	r := router.New(sess)
	for _, def := range router.Defs {
		def := def
		r.Handle(def, func() router.Page {
			switch def.Path {
			case "/blog", "/edit-blogs":
				return router.PageFunc(func(ctx context.Context) (string, error) {
					blogs, err := client.GetBlogs(ctx)
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%s: %d posts", def.Path, len(blogs)), nil
				})
			case "/travel", "/map", "/edit-places":
				return router.PageFunc(func(ctx context.Context) (string, error) {
					places, err := client.GetPlaces(ctx)
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%s: %d places", def.Path, len(places)), nil
				})
			case "/edit-users":
				return router.PageFunc(func(ctx context.Context) (string, error) {
					users, err := client.GetUsers(ctx)
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%s: %d users", def.Path, len(users)), nil
				})
			}
			return router.PageFunc(func(context.Context) (string, error) {
				return def.Path, nil
			})
		})
	}
	return r
}

func cmdStructure(ctx context.Context, client *api.Client, sess *session.Store) error {
	b := manuals.New(client, sess)
	if err := client.Retry(ctx, func() error { return b.LoadStructure(ctx) }); err != nil {
		return err
	}
	for _, ym := range b.Structure() {
		fmt.Println(ym.YearMake)
		for _, m := range ym.Models {
			fmt.Printf("  %s\n", m)
		}
	}
	return nil
}

func cmdModels(ctx context.Context, client *api.Client, sess *session.Store, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: models <yearMake>")
	}
	models, err := client.GetModels(ctx, args[0])
	if err != nil {
		return err
	}
	for _, m := range models {
		fmt.Println(m)
	}
	return nil
}

// loadListing builds a browser positioned on one (yearMake, model) pair.
func loadListing(ctx context.Context, client *api.Client, sess *session.Store, yearMake, model string) (*manuals.Browser, error) {
	b := manuals.New(client, sess)
	b.SetYearMake(yearMake)
	if err := b.SetModel(ctx, model); err != nil {
		return nil, err
	}
	return b, nil
}

func cmdFiles(ctx context.Context, client *api.Client, sess *session.Store, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: files <yearMake> <model>")
	}
	b, err := loadListing(ctx, client, sess, args[0], args[1])
	if err != nil {
		return err
	}

	g := b.Grouped()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tMODIFIED")
	printEntry := func(indent string, e manuals.Entry) {
		fmt.Fprintf(w, "%d\t%s%s\t%s\t%s\n", e.ID, indent, e.Name, manuals.FormatFileSize(e.Size), e.Modified)
	}
	for _, d := range g.Directories {
		fmt.Fprintf(w, "%d\t%s/\t%d files\t%s\n", d.ID, d.Name, d.FileCount, d.Modified)
		for _, f := range d.Files {
			printEntry("  ", f)
		}
	}
	for _, f := range g.RootFiles {
		printEntry("", f)
	}
	return w.Flush()
}

func cmdDownload(ctx context.Context, client *api.Client, sess *session.Store, outDir string, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: download <yearMake> <model> (all | dir <name> | <id> [id...])")
	}
	b, err := loadListing(ctx, client, sess, args[0], args[1])
	if err != nil {
		return err
	}
	saver := download.NewDirSaver(outDir)

	var path string
	switch args[2] {
	case "all":
		path, err = b.DownloadAll(ctx, saver)
	case "dir":
		if len(args) != 4 {
			return fmt.Errorf("usage: download <yearMake> <model> dir <name>")
		}
		path, err = b.DownloadDirectory(ctx, saver, args[3])
	default:
		for _, a := range args[2:] {
			id, convErr := strconv.Atoi(a)
			if convErr != nil {
				return fmt.Errorf("bad listing id %q", a)
			}
			b.ToggleFile(id)
		}
		if b.SelectedFileCount() == 0 {
			return fmt.Errorf("ids name no files in this listing")
		}
		path, err = b.DownloadSelected(ctx, saver)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

func cmdPreview(ctx context.Context, client *api.Client, sess *session.Store, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: preview <yearMake> <model> <id>")
	}
	b, err := loadListing(ctx, client, sess, args[0], args[1])
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("bad listing id %q", args[2])
	}

	p, err := b.Preview(ctx, id)
	if err != nil {
		return err
	}
	defer p.Close()

	viewer := exec.Command(openCommand(), p.Path)
	if err := viewer.Run(); err != nil {
		return fmt.Errorf("open viewer: %w", err)
	}
	return nil
}

func openCommand() string {
	if v := os.Getenv("EDANDLINDA_VIEWER"); v != "" {
		return v
	}
	return "xdg-open"
}
