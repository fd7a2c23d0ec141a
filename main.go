package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cristianadrielbraun/mintqr/internal/app"
	"github.com/cristianadrielbraun/mintqr/internal/config"
	"github.com/cristianadrielbraun/mintqr/internal/export"
	"github.com/cristianadrielbraun/mintqr/internal/handlers"
	"github.com/cristianadrielbraun/mintqr/internal/render"
	"github.com/cristianadrielbraun/mintqr/internal/settings"
	"github.com/cristianadrielbraun/mintqr/internal/storage"
)

var version = "v0.1.0"

func main() {
	var configPath, engine, logLevel string

	root := &cobra.Command{
		Use:           "mintqr",
		Short:         "Generate styled QR codes with history and share links",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "mintqr.yaml", "Path to config file")
	root.PersistentFlags().StringVar(&engine, "engine", "", "QR encoder engine (yeqown or skip2)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if engine != "" {
			cfg.Engine = engine
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		return cfg, nil
	}

	// --- serve command -------------------------------------------------------
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator page on a local address",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
	root.AddCommand(serveCmd)

	// --- generate command ----------------------------------------------------
	var gen generateOptions
	generateCmd := &cobra.Command{
		Use:   "generate [text]",
		Short: "Render a QR code and save, copy or print it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				gen.text = args[0]
				gen.textSet = true
			}
			return runGenerate(cmd, cfg, gen)
		},
	}
	gf := generateCmd.Flags()
	gf.StringVarP(&gen.text, "text", "t", "", "Content to encode")
	gf.IntVar(&gen.size, "size", settings.DefaultSize, "Code size in pixels (128-1024)")
	gf.IntVar(&gen.margin, "margin", settings.DefaultMargin, "Margin in pixels around exports (0-64)")
	gf.StringVarP(&gen.level, "level", "l", string(settings.ECMedium), "Error correction level (L, M, Q, H)")
	gf.StringVar(&gen.dark, "dark", settings.DefaultColorDark, "Foreground color")
	gf.StringVar(&gen.light, "light", settings.DefaultColorLight, "Background color")
	gf.StringVar(&gen.logo, "logo", "", "Logo image to place in the center")
	gf.BoolVar(&gen.noLogo, "no-logo", false, "Remove the current logo")
	gf.StringVarP(&gen.format, "format", "f", "", "Output format (png, jpg, svg)")
	gf.StringVarP(&gen.output, "output", "o", "", "Write to this file, replacing it")
	gf.BoolVar(&gen.terminal, "terminal", false, "Print the code to the terminal")
	gf.BoolVar(&gen.copy, "copy", false, "Copy the PNG export to the clipboard")
	gf.BoolVar(&gen.save, "save", false, "Add the code to the history")
	gf.BoolVar(&gen.share, "share", false, "Print a share link")
	root.AddCommand(generateCmd)

	// --- share command -------------------------------------------------------
	var copyLink bool
	shareCmd := &cobra.Command{
		Use:   "share",
		Short: "Print a link that reproduces the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runShare(cfg, copyLink)
		},
	}
	shareCmd.Flags().BoolVar(&copyLink, "copy", false, "Also copy the link to the clipboard")
	root.AddCommand(shareCmd)

	// --- link command --------------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "link [url]",
		Short: "Apply the settings from a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runLink(cfg, args[0])
		},
	})

	// --- history commands ----------------------------------------------------
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List, load and delete saved codes",
	}
	historyCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved codes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runHistoryList(cfg, cmd.OutOrStdout())
		},
	})
	historyCmd.AddCommand(&cobra.Command{
		Use:   "load [id]",
		Short: "Make a saved code's settings current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runHistoryLoad(cfg, args[0])
		},
	})
	historyCmd.AddCommand(&cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runHistoryDelete(cfg, args[0])
		},
	})
	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every saved code",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runHistoryClear(cfg)
		},
	})
	root.AddCommand(historyCmd)

	// --- scan command --------------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "scan [image]",
		Short: "Decode the QR code in an image file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := render.ScanFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	})

	// --- watch command -------------------------------------------------------
	var watchOutput string
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render to a file as lines arrive on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runWatch(cfg, cmd.InOrStdin(), watchOutput)
		},
	}
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "File to keep up to date (default: download name in the download dir)")
	root.AddCommand(watchCmd)

	// --- version command -----------------------------------------------------
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mintqr %s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger from a level name.
func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// env is everything a command needs, opened from the config.
type env struct {
	cfg   *config.Config
	log   *logrus.Logger
	store storage.Store
	ctrl  *app.Controller
}

// open wires config, logger, store and controller. debounce overrides the
// configured debounce; CLI commands that render once pass zero.
func open(cfg *config.Config, debounce time.Duration, onRender func(app.State)) (*env, error) {
	log := newLogger(cfg.LogLevel)

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}
	store, err := storage.Open(cfg.Storage, cfg.DataDir, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	engine, err := render.NewEngine(cfg.Engine)
	if err != nil {
		store.Close()
		return nil, err
	}

	ctrl := app.New(app.Options{
		Renderer:  render.NewRenderer(engine),
		Local:     storage.NewLocal(store, log),
		Clipboard: export.SystemClipboard(),
		Log:       log,
		ShareBase: cfg.ShareBase(),
		Debounce:  debounce,
		OnRender:  onRender,
	})
	log.WithFields(logrus.Fields{
		"engine":   engine.Name(),
		"storage":  cfg.Storage,
		"data_dir": cfg.DataDir,
	}).Debug("opened")
	return &env{cfg: cfg, log: log, store: store, ctrl: ctrl}, nil
}

func (rt *env) Close() {
	if err := rt.store.Close(); err != nil {
		rt.log.WithError(err).Warn("close store")
	}
}

// runServe hosts the generator page until SIGINT or SIGTERM.
func runServe(cfg *config.Config) error {
	rt, err := open(cfg, cfg.Debounce.Duration, nil)
	if err != nil {
		return err
	}
	defer rt.Close()
	rt.ctrl.Init(nil)

	if rt.log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.LoggerWithWriter(rt.log.Writer()))
	r.Use(gin.Recovery())
	handlers.New(rt.ctrl, rt.log).Register(r)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		rt.log.Infof("mintqr listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	}

	rt.log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		rt.log.WithError(err).Error("HTTP server shutdown error")
	}
	return nil
}

type generateOptions struct {
	text     string
	textSet  bool
	size     int
	margin   int
	level    string
	dark     string
	light    string
	logo     string
	noLogo   bool
	format   string
	output   string
	terminal bool
	copy     bool
	save     bool
	share    bool
}

// patch turns the flags the user actually set into an edit.
func (o generateOptions) patch(cmd *cobra.Command) (settings.Patch, error) {
	var p settings.Patch
	flags := cmd.Flags()
	if o.textSet || flags.Changed("text") {
		p.Text = &o.text
	}
	if flags.Changed("size") {
		p.Size = &o.size
	}
	if flags.Changed("margin") {
		p.Margin = &o.margin
	}
	if flags.Changed("level") {
		l, ok := settings.ParseECLevel(o.level)
		if !ok {
			return p, fmt.Errorf("invalid error correction level %q", o.level)
		}
		p.ECLevel = &l
	}
	if flags.Changed("dark") {
		p.ColorDark = &o.dark
	}
	if flags.Changed("light") {
		p.ColorLight = &o.light
	}
	p.ClearLogo = o.noLogo
	return p, nil
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, o generateOptions) error {
	rt, err := open(cfg, 0, nil)
	if err != nil {
		return err
	}
	defer rt.Close()
	ctrl := rt.ctrl
	out := cmd.OutOrStdout()

	ctrl.Init(nil)
	p, err := o.patch(cmd)
	if err != nil {
		return err
	}
	ctrl.Update(p)
	if o.logo != "" {
		if _, err := ctrl.SetLogoFile(o.logo); err != nil {
			return err
		}
	}

	st := ctrl.State()
	if st.LowContrast {
		rt.log.Warn(st.Status)
	}
	if st.Preview == nil {
		return errors.New(st.Status)
	}
	if st.Settings.HasLogo() {
		if ok, _ := ctrl.Readable(); !ok {
			rt.log.Warn(app.StatusNotScannable)
		}
	}

	if o.terminal {
		if err := render.Terminal(out, st.Settings); err != nil {
			return err
		}
	}

	format := export.ParseFormat(o.format)
	switch {
	case o.output != "":
		if o.format == "" {
			format = export.FormatFromFilename(o.output)
		}
		if err := export.WriteFile(o.output, func(w io.Writer) error { return ctrl.Write(w, format) }); err != nil {
			return fmt.Errorf("write %s: %w", o.output, err)
		}
		fmt.Fprintln(out, o.output)
	case !o.terminal:
		name := cfg.DownloadName
		if o.format != "" {
			name = strings.TrimSuffix(name, filepath.Ext(name)) + format.Ext()
		} else {
			format = export.FormatFromFilename(name)
		}
		path, err := ctrl.Download(cfg.DownloadDir, name, format)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
	}

	if o.copy {
		if err := ctrl.Copy(cmd.Context()); err != nil {
			return errors.New(ctrl.Status())
		}
		fmt.Fprintln(out, ctrl.Status())
	}
	if o.save {
		e, err := ctrl.Save()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %d\n", e.ID)
	}
	if o.share {
		link, err := ctrl.ShareLink()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, link)
	}
	return nil
}

func runShare(cfg *config.Config, copyLink bool) error {
	rt, err := open(cfg, 0, nil)
	if err != nil {
		return err
	}
	defer rt.Close()
	rt.ctrl.Init(nil)

	if !copyLink {
		link, err := rt.ctrl.ShareLink()
		if err != nil {
			return err
		}
		fmt.Println(link)
		return nil
	}
	link, err := rt.ctrl.CopyShareLink(context.Background())
	fmt.Println(link)
	if err != nil {
		rt.log.Warn(rt.ctrl.Status())
		return nil
	}
	fmt.Println(rt.ctrl.Status())
	return nil
}

func runLink(cfg *config.Config, raw string) error {
	rt, err := open(cfg, 0, nil)
	if err != nil {
		return err
	}
	defer rt.Close()
	rt.ctrl.Init(nil)

	st, err := rt.ctrl.ApplyLink(raw)
	if err != nil {
		return err
	}
	printSettings(os.Stdout, st.Settings)
	return nil
}

func runHistoryList(cfg *config.Config, out io.Writer) error {
	rt, err := open(cfg, 0, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	list := rt.ctrl.History()
	if len(list) == 0 {
		fmt.Fprintln(out, "No items yet")
		return nil
	}
	table := tablewriter.NewWriter(out)
	table.Header("ID", "Saved", "Label", "Size", "Level", "Colors")
	for _, e := range list {
		s := e.Settings
		if err := table.Append(
			strconv.FormatInt(e.ID, 10),
			e.Created().Format(time.DateTime),
			e.DisplayLabel(),
			strconv.Itoa(s.Size),
			string(s.ECLevel),
			s.ColorDark+" / "+s.ColorLight,
		); err != nil {
			return err
		}
	}
	return table.Render()
}

func runHistoryLoad(cfg *config.Config, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid history id %q", arg)
	}
	rt, err := open(cfg, 0, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	st, err := rt.ctrl.LoadHistory(id)
	if err != nil {
		return err
	}
	printSettings(os.Stdout, st.Settings)
	return nil
}

func runHistoryDelete(cfg *config.Config, arg string) error {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid history id %q", arg)
	}
	rt, err := open(cfg, 0, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	left := rt.ctrl.DeleteHistory(id)
	fmt.Printf("%d saved\n", len(left))
	return nil
}

func runHistoryClear(cfg *config.Config) error {
	rt, err := open(cfg, 0, nil)
	if err != nil {
		return err
	}
	defer rt.Close()
	rt.ctrl.ClearHistory()
	return nil
}

// runWatch treats every stdin line as a text edit and keeps output in sync
// with the latest line once input pauses.
func runWatch(cfg *config.Config, in io.Reader, output string) error {
	if output == "" {
		output = filepath.Join(cfg.DownloadDir, cfg.DownloadName)
	}
	format := export.FormatFromFilename(output)

	var rt *env
	onRender := func(st app.State) {
		if st.Preview == nil {
			rt.log.Warn(st.Status)
			return
		}
		err := export.WriteFile(output, func(w io.Writer) error { return rt.ctrl.Write(w, format) })
		if err != nil {
			rt.log.WithError(err).Error("write output")
			return
		}
		rt.log.WithField("text", st.Settings.Text).Infof("wrote %s", output)
	}

	var err error
	rt, err = open(cfg, cfg.Debounce.Duration, onRender)
	if err != nil {
		return err
	}
	defer rt.Close()
	rt.ctrl.Init(nil)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		rt.ctrl.Update(settings.Patch{Text: &line})
	}
	// Render whatever is still pending and wait for the last write.
	rt.ctrl.Flush()
	return scanner.Err()
}

func printSettings(w io.Writer, s settings.Settings) {
	fmt.Fprintf(w, "text:   %s\n", s.Text)
	fmt.Fprintf(w, "size:   %d\n", s.Size)
	fmt.Fprintf(w, "margin: %d\n", s.Margin)
	fmt.Fprintf(w, "level:  %s\n", s.ECLevel)
	fmt.Fprintf(w, "colors: %s on %s\n", s.ColorDark, s.ColorLight)
	if s.HasLogo() {
		fmt.Fprintln(w, "logo:   yes")
	}
}
