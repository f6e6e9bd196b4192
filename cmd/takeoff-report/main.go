// Command takeoff-report computes certified quantity takeoffs for a project
// snapshot and renders them as JSON or CSV. With -export the artifacts are
// also pushed to the configured blob store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"takeoffcore/internal/adapters/boq"
	"takeoffcore/internal/blob"
	"takeoffcore/internal/core"
	"takeoffcore/internal/infra/persistence/memory"
	"takeoffcore/pkg/domain"
)

var exitFunc = os.Exit

func main() {
	exitFunc(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("takeoff-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", "path to project snapshot JSON (required)")
	format := fs.String("format", "json", "output format: json|csv")
	output := fs.String("out", "", "write report to file instead of stdout")
	export := fs.Bool("export", false, "also store artifacts in the configured blob store")
	lint := fs.Bool("lint", false, "print consistency findings to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *input == "" {
		fmt.Fprintln(stderr, "takeoff-report: -input is required")
		fs.Usage()
		return 2
	}
	boqFormat := boq.Format(*format)
	if boqFormat != boq.FormatJSON && boqFormat != boq.FormatCSV {
		fmt.Fprintf(stderr, "takeoff-report: unsupported format %q\n", *format)
		return 2
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintf(stderr, "takeoff-report: %v\n", err)
		return 1
	}
	var project domain.Project
	if err := json.Unmarshal(raw, &project); err != nil {
		fmt.Fprintf(stderr, "takeoff-report: parse %s: %v\n", *input, err)
		return 1
	}

	ctx := context.Background()
	svc := core.NewService(memory.NewStore())
	if err := svc.SaveProject(ctx, project); err != nil {
		var verr domain.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(stderr, "takeoff-report: invalid project: %v\n", verr)
		} else {
			fmt.Fprintf(stderr, "takeoff-report: %v\n", err)
		}
		return 1
	}

	if *lint {
		result, err := svc.Lint(ctx, project.Name)
		if err != nil {
			fmt.Fprintf(stderr, "takeoff-report: lint: %v\n", err)
			return 1
		}
		for _, v := range result.Violations {
			fmt.Fprintf(stderr, "%s %s: %s\n", v.Severity, v.Rule, v.Message)
		}
	}

	doc, err := boq.BuildDocument(ctx, svc, project.Name)
	if err != nil {
		fmt.Fprintf(stderr, "takeoff-report: %v\n", err)
		return 1
	}
	payload, _, err := boq.Render(boqFormat, doc)
	if err != nil {
		fmt.Fprintf(stderr, "takeoff-report: %v\n", err)
		return 1
	}

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			fmt.Fprintf(stderr, "takeoff-report: %v\n", err)
			return 1
		}
	} else {
		if _, err := stdout.Write(payload); err != nil {
			fmt.Fprintf(stderr, "takeoff-report: %v\n", err)
			return 1
		}
	}

	if *export {
		if err := exportArtifacts(ctx, svc, project.Name, stderr); err != nil {
			fmt.Fprintf(stderr, "takeoff-report: export: %v\n", err)
			return 1
		}
	}
	return 0
}

func exportArtifacts(ctx context.Context, svc *core.Service, projectName string, stderr io.Writer) error {
	store, err := blob.Open(ctx)
	if err != nil {
		return err
	}
	worker := boq.NewWorker(svc, store, nil)
	worker.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = worker.Stop(stopCtx)
	}()

	record, err := worker.Enqueue(ctx, boq.Input{Project: projectName})
	if err != nil {
		return err
	}
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		current, ok := worker.Get(record.ID)
		if !ok {
			return fmt.Errorf("export %s lost", record.ID)
		}
		switch current.Status {
		case boq.ExportStatusSucceeded:
			for _, artifact := range current.Artifacts {
				fmt.Fprintf(stderr, "stored %s (%d bytes)\n", artifact.Key, artifact.SizeBytes)
			}
			return nil
		case boq.ExportStatusFailed:
			return fmt.Errorf("%s", current.Error)
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("export %s timed out", record.ID)
}
