package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"osrs_sim/internal/api"
	"osrs_sim/internal/data"
	"osrs_sim/internal/logger"
	"osrs_sim/internal/store"
)

func runFetch(args []string) error {
	var (
		e     env
		force bool
	)
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	e.register(fs)
	fs.BoolVar(&force, "force", false, "download even when a cache exists")
	if err := e.parse(fs, args); err != nil {
		return err
	}

	meta, ok, err := data.ReadMetadata(e.dataDir)
	if err != nil {
		return err
	}
	if ok && !force {
		fmt.Printf("Cache in %s from %s (%s), %s items, %s monsters. Use -force to refresh.\n",
			e.dataDir, meta.Source, meta.LastUpdated,
			humanize.Comma(int64(meta.ItemCount)), humanize.Comma(int64(meta.MonsterCount)))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	meta, err = data.NewFetcher(e.dataDir).Fetch(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Fetched %s items and %s monsters from %s -> %s\n",
		humanize.Comma(int64(meta.ItemCount)), humanize.Comma(int64(meta.MonsterCount)), meta.Source, e.dataDir)
	return nil
}

func runResults(args []string) error {
	var (
		e         env
		limit     int
		kind      string
		show, del string
	)
	fs := flag.NewFlagSet("results", flag.ContinueOnError)
	e.register(fs)
	fs.IntVar(&limit, "limit", 20, "records to list")
	fs.StringVar(&kind, "kind", "", "list every record of one kind (optimize, simulate, dps)")
	fs.StringVar(&show, "show", "", "print the stored result with this id")
	fs.StringVar(&del, "delete", "", "delete the stored result with this id")
	if err := e.parse(fs, args); err != nil {
		return err
	}
	if e.dbPath == "" {
		e.dbPath = "data/results.db"
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	switch {
	case show != "":
		rec, err := st.Load(show)
		if err != nil {
			return err
		}
		return writeOut("-", rec)
	case del != "":
		if err := st.Delete(del); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", del)
		return nil
	}

	var recs []store.Record
	if kind != "" {
		recs, err = st.ListAll(kind)
	} else {
		recs, err = st.ListRecent(limit)
	}
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("No stored results.")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tLABEL\tSEED\tCREATED")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.Kind, r.Label, r.Seed, humanize.Time(r.CreatedAt))
	}
	return tw.Flush()
}

func runServe(args []string) error {
	var (
		e    env
		addr string
	)
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	e.register(fs)
	fs.StringVar(&addr, "addr", ":8080", "listen address")
	if err := e.parse(fs, args); err != nil {
		return err
	}

	rules, reg, err := e.load()
	if err != nil {
		return err
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(rules, reg, data.NewCatalog(e.dataDir), st).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr, "store", st != nil)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
