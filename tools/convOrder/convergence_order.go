package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/notargets/gocfd-heat/model_problems/Heat1D"
	"github.com/notargets/gocfd-heat/runlog"
)

var (
	csvFile string
	logFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	logFilePtr := flag.String("runLog", logFile, "run log database whose per quantity sums are printed")
	flag.Parse()
	csvFile, logFile = *csvFilePtr, *logFilePtr
	if len(csvFile) == 0 && len(logFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if len(csvFile) != 0 {
		fmt.Printf("Input file: %v\n", csvFile)
		f, err := os.Open(csvFile)
		if err != nil {
			panic(err)
		}
		studies, err := readCSV(bufio.NewReader(f))
		_ = f.Close()
		if err != nil {
			panic(err)
		}
		keys := make([]string, 0, len(studies))
		for k := range studies {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			studies[k].Print(os.Stdout)
		}
	}
	if len(logFile) != 0 {
		if err := printSums(context.Background(), logFile, os.Stdout); err != nil {
			panic(err)
		}
	}
}

// readCSV reads rows of title, numPTS, order, CFL, L2 error after a header
// row, grouping rows by title and order
func readCSV(r io.Reader) (studies map[string]*Heat1D.ConvergenceStudy, err error) {
	var (
		records [][]string
		cfl, l2 float64
		ok      bool
		cs      *Heat1D.ConvergenceStudy
	)
	studies = make(map[string]*Heat1D.ConvergenceStudy)
	if records, err = csv.NewReader(r).ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 5 {
			return nil, fmt.Errorf("line %d: %d fields, need title, numPTS, order, CFL, L2", i+1, len(rec))
		}
		title, nptstxt, ntxt, cfltxt := rec[0], rec[1], rec[2], rec[3]
		var n, npts int
		if n, err = strconv.Atoi(ntxt); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if npts, err = strconv.Atoi(nptstxt); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if cfl, err = strconv.ParseFloat(cfltxt, 64); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if l2, err = strconv.ParseFloat(rec[4], 64); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		combTitle := title + ntxt
		if cs, ok = studies[combTitle]; !ok {
			cs = Heat1D.NewConvergenceStudy(title, n, cfl)
			studies[combTitle] = cs
		}
		cs.Add(npts, l2)
	}
	return
}

func printSums(ctx context.Context, path string, w io.Writer) (err error) {
	var (
		l    *runlog.Log
		sums map[string]float64
	)
	if l, err = runlog.Open(path); err != nil {
		return
	}
	defer l.Close()
	if sums, err = l.ValueSums(ctx); err != nil {
		return
	}
	for _, q := range l.Quantities() {
		fmt.Fprintf(w, "%s: %v %s\n", q.Name, sums[q.Name], q.Unit)
	}
	return
}
