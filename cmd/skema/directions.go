package main

import (
	"fmt"

	"github.com/reoring/skema"
	"github.com/reoring/skema/directions"
)

func directionsCmd(e *env, args []string) int {
	fs := newFlagSet(e, "directions")
	var (
		c       common
		cfgPath string
		asserts multiFlag
	)
	c.register(fs)
	fs.StringVar(&cfgPath, "config", "", "YAML config file")
	fs.Var(&asserts, "assert", "CEL assertion over self (repeatable)")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if !c.apply(e) {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	_, rule, opt, ok := prepare(e, cfgPath, asserts)
	if !ok {
		return exitUsage
	}
	data, err := readInput(e, fs.Arg(0))
	if err != nil {
		e.log.Error("read input", "err", err)
		return exitUsage
	}
	rec, code := decodeAndCheck(e, directions.Registry, directions.SchemaResponse, data, opt, rule)
	if code != exitOK {
		return code
	}
	var resp directions.Response
	if err := skema.Bind(rec, &resp); err != nil {
		return reportErr(e, err)
	}
	printSummary(e, resp)
	return exitOK
}

func printSummary(e *env, resp directions.Response) {
	w := e.stdout
	fmt.Fprintf(w, "code: %s\n", resp.Code)
	fmt.Fprintf(w, "routes: %d\n", len(resp.Routes))
	fmt.Fprintf(w, "waypoints: %d\n", len(resp.Waypoints))
	for i, wp := range resp.Waypoints {
		if p, ok := wp.Position(); ok {
			fmt.Fprintf(w, "  [%d] %s (%.6f, %.6f)\n", i, wp.Name, p.Lon, p.Lat)
		}
	}
	if best, ok := resp.Best(); ok {
		steps := 0
		for _, l := range best.Legs {
			steps += len(l.Steps)
		}
		fmt.Fprintf(w, "best: %.1f m, %.1f s, %d legs, %d steps\n", best.Distance, best.Duration, len(best.Legs), steps)
	}
	if b, ok := resp.Bounds(); ok {
		fmt.Fprintf(w, "bounds: %.6f,%.6f %.6f,%.6f\n", b.SouthWest.Lon, b.SouthWest.Lat, b.NorthEast.Lon, b.NorthEast.Lat)
	}
}
