/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"framescript/internal/backend"
	"framescript/internal/config"
	"framescript/internal/crash"
	"framescript/internal/domain"
	"framescript/internal/export"
	applog "framescript/internal/log"
	"framescript/internal/loader"
	"framescript/internal/script"
	"framescript/internal/storage"
	"framescript/internal/telemetry"
	"framescript/internal/version"
)

func usage() {
	fmt.Println("framescript — diagram visibility script to presence matrix")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  framescript version|-v|--version             Show version")
	fmt.Println("  framescript convert <input.json> <dir>       Convert a diagram document into a workspace at <dir>")
	fmt.Println("  framescript open <dir>                       Open workspace at <dir> and print a summary")
	fmt.Println("  framescript deck <dir> [out.html]            Export a reveal.js deck skeleton")
	fmt.Println("  framescript export-csv <dir> [out.csv]       Export the matrix as CSV")
	fmt.Println("  framescript export-pdf <dir> [out.pdf]       Export the matrix as a PDF report")
	fmt.Println("  framescript export-png <dir> [out.png]       Export the matrix as a PNG grid")
	fmt.Println("  framescript push <dir> <diagram-id>          Upload the matrix to the share server")
	fmt.Println("  framescript list                             List diagrams on the share server")
	fmt.Println("  framescript serve                            Run the share server")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var h *storage.Handle
	defer func() { crash.Recover(h) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println(version.String())
	case "convert":
		if len(args) < 4 {
			fmt.Println("convert requires <input.json> and <dir>")
			usage()
			os.Exit(2)
		}
		h = cmdConvert(l, args[2], args[3])
	case "open":
		if len(args) < 3 {
			fmt.Println("open requires <dir>")
			usage()
			os.Exit(2)
		}
		h = mustOpen(l, args[2])
		m := h.Matrix
		fmt.Printf("Workspace: %s\n", h.Root)
		fmt.Printf("Frames:    0..%d\n", m.NFrame)
		fmt.Printf("Objects:   %d\n", len(m.Columns()))
	case "deck", "export-csv", "export-pdf", "export-png":
		if len(args) < 3 {
			fmt.Printf("%s requires <dir>\n", args[1])
			usage()
			os.Exit(2)
		}
		h = mustOpen(l, args[2])
		out := ""
		if len(args) >= 4 {
			out = args[3]
		}
		cmdExport(l, h, args[1], out)
	case "push":
		if len(args) < 4 {
			fmt.Println("push requires <dir> and <diagram-id>")
			usage()
			os.Exit(2)
		}
		id, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			fmt.Println("Error: invalid diagram id:", args[3])
			os.Exit(2)
		}
		h = mustOpen(l, args[2])
		cmdPush(l, h, id)
	case "list":
		cmdList(l)
	case "serve":
		l.Info("starting share server")
		if err := backend.Start(); err != nil {
			l.Error("server failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
	default:
		usage()
	}
}

func mustOpen(l *slog.Logger, dir string) *storage.Handle {
	abs, _ := filepath.Abs(dir)
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}

func cmdConvert(l *slog.Logger, inPath, dir string) *storage.Handle {
	abs, _ := filepath.Abs(dir)
	l.Info("convert", slog.String("input", inPath), slog.String("root", abs))

	data, err := os.ReadFile(inPath)
	if err != nil {
		l.Error("read input failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	d, scriptText, err := loader.Parse(data)
	if err != nil {
		l.Error("parse input failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	diagramHash := storage.Hash(data)
	scriptHash := storage.Hash([]byte(scriptText))

	// conversion cache: reuse a previous result for identical input
	ctx := context.Background()
	var m *domain.Matrix
	if db, cerr := storage.InitOrOpenCache(abs); cerr != nil {
		l.Warn("cache unavailable", slog.Any("err", cerr))
	} else {
		if cm, hit, lerr := storage.LookupMatrix(ctx, db, diagramHash, scriptHash); lerr == nil && hit {
			m = cm
		}
		_ = db.Close()
	}
	cached := m != nil

	if m == nil {
		start := time.Now()
		res, cerr := script.Convert(d, scriptText)
		if cerr != nil {
			l.Error("conversion failed", slog.Any("err", cerr))
			fmt.Println("Error:", cerr)
			os.Exit(1)
		}
		m = res
		telemetry.Event("convert", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"n_frame":     m.NFrame,
			"objects":     len(m.Columns()),
		})
	}

	h, err := storage.InitWorkspace(abs, m)
	if err != nil {
		l.Error("init workspace failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	if !cached {
		if db, cerr := storage.InitOrOpenCache(abs); cerr == nil {
			if serr := storage.StoreMatrix(ctx, db, diagramHash, scriptHash, m); serr != nil {
				l.Warn("cache store failed", slog.Any("err", serr))
			}
			_ = db.Close()
		}
	}

	src := "converted"
	if cached {
		src = "cache hit"
	}
	fmt.Printf("Wrote %s (%s): frames 0..%d, %d objects\n", h.ResultPath, src, m.NFrame, len(m.Columns()))
	return h
}

func cmdExport(l *slog.Logger, h *storage.Handle, kind, out string) {
	cfg, _, err := config.Load()
	if err != nil {
		l.Warn("config load failed", slog.Any("err", err))
		cfg = config.Defaults()
	}
	defaults := map[string]string{
		"deck":       "deck.html",
		"export-csv": "matrix.csv",
		"export-pdf": "matrix.pdf",
		"export-png": "matrix.png",
	}
	if out == "" {
		out = filepath.Join(h.Root, "exports", defaults[kind])
	}

	switch kind {
	case "deck":
		err = export.ExportDeck(h.Matrix, out, export.DeckOptions{
			Title:      cfg.Export.DeckTitle,
			RevealBase: cfg.Export.RevealBase,
		})
	case "export-csv":
		err = export.ExportCSV(h.Matrix, out)
	case "export-pdf":
		err = export.ExportPDF(h.Matrix, out, export.PDFOptions{Title: cfg.Export.DeckTitle})
	case "export-png":
		err = export.ExportPNG(h.Matrix, out, export.PNGOptions{})
	}
	if err != nil {
		l.Error("export failed", slog.String("kind", kind), slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	l.Info("export written", slog.String("kind", kind), slog.String("path", out))
	fmt.Println("Wrote", out)
}

func cmdPush(l *slog.Logger, h *storage.Handle, id int64) {
	cfg, token, err := config.Load()
	if err != nil {
		l.Error("config load failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	c := backend.NewClient(cfg.Backend.BaseURL, token)
	res, err := c.PushMatrix(context.Background(), id, h.Matrix)
	if err != nil {
		l.Error("push failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Printf("Pushed diagram %d as version %d\n", res.DiagramID, res.Version)
}

func cmdList(l *slog.Logger) {
	cfg, token, err := config.Load()
	if err != nil {
		l.Error("config load failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	c := backend.NewClient(cfg.Backend.BaseURL, token)
	list, err := c.ListDiagrams(context.Background())
	if err != nil {
		l.Error("list failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	for _, d := range list {
		fmt.Printf("%d\t%s\tv%d\t%s\n", d.ID, d.Name, d.Version, d.UpdatedAt.Format("2006-01-02 15:04"))
	}
	if len(list) == 0 {
		fmt.Println("no diagrams")
	}
}
