package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"github.com/Alexico1969/project-stem-grader/internal/config"
	"github.com/Alexico1969/project-stem-grader/internal/exporter"
	"github.com/Alexico1969/project-stem-grader/internal/infrastructure"
	"github.com/Alexico1969/project-stem-grader/internal/services"
	"github.com/Alexico1969/project-stem-grader/internal/sheets"
	"github.com/Alexico1969/project-stem-grader/pkg/contracts"
)

func main() {
	student := flag.String("student", "", "student name for lookups, either \"First Last\" or \"Last, First\"")
	assignment := flag.String("assignment", "", "assignment name for lookups or exports")
	prefix := flag.String("prefix", "", "sub-chapter prefix for bulk exports, e.g. 1.4")
	export := flag.Bool("export", false, "export instead of printing a report")
	local := flag.Bool("local", false, "write exports to the local exports directory instead of Google Sheets")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("Failed to load configuration", err)
	}

	// Console tool: keep log noise out of the menu unless something breaks
	if cfg.Logging.Output == "console" && cfg.Logging.Level == "info" {
		cfg.Logging.Level = "warn"
	}
	logger := infrastructure.MustInitializeLogger(cfg.Logging)

	paths, err := config.GetPaths(cfg.Gradebook)
	if err != nil {
		fatal("Failed to resolve paths", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		fatal("Failed to create directories", err)
	}

	ctx := context.Background()

	var sink services.ExportSink
	if *local || !cfg.Sheets.Enabled {
		sink = exporter.NewLocalSink(paths, logger)
	} else {
		sink, err = sheets.NewExporter(ctx, cfg.Sheets, logger)
		if err != nil {
			color.Yellow("Google Sheets unavailable (%v), falling back to local exports", err)
			sink = exporter.NewLocalSink(paths, logger)
		}
	}

	svc, err := services.NewGradebookService(ctx, cfg.Gradebook, paths, sink, logger)
	if err != nil {
		fatal("Failed to load gradebook", err)
	}

	cli := &cli{svc: svc, stdin: bufio.NewScanner(os.Stdin)}

	// Flag-driven single operation, for scripting
	switch {
	case *student != "" && *assignment != "":
		cli.lookupGrade(ctx, *student, *assignment)
	case *student != "":
		cli.studentReport(ctx, *student)
	case *assignment != "" && *export:
		cli.exportAssignment(ctx, *assignment)
	case *assignment != "":
		cli.assignmentReport(ctx, *assignment)
	case *prefix != "":
		cli.exportSubchapter(ctx, *prefix)
	default:
		cli.menu(ctx)
	}
}

type cli struct {
	svc   *services.GradebookService
	stdin *bufio.Scanner
}

func (c *cli) menu(ctx context.Context) {
	for {
		color.Cyan("\n=== Project STEM Grader ===")
		fmt.Println("1. Look up one grade")
		fmt.Println("2. All grades for a student")
		fmt.Println("3. Assignment report by section")
		fmt.Println("4. Export an assignment to a spreadsheet")
		fmt.Println("5. Export a sub-chapter to a spreadsheet")
		fmt.Println("6. List assignments")
		fmt.Println("7. Exit")
		fmt.Print("\nEnter your choice (1-7): ")

		switch c.readLine() {
		case "1":
			c.lookupGrade(ctx, c.prompt("Student name: "), c.prompt("Assignment name: "))
		case "2":
			c.studentReport(ctx, c.prompt("Student name: "))
		case "3":
			c.assignmentReport(ctx, c.prompt("Assignment name: "))
		case "4":
			c.exportAssignment(ctx, c.prompt("Assignment name: "))
		case "5":
			c.listSubchapters()
			c.exportSubchapter(ctx, c.prompt("Sub-chapter prefix: "))
		case "6":
			c.listAssignments()
		case "7":
			color.Green("Goodbye!")
			return
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func (c *cli) prompt(label string) string {
	fmt.Print(label)
	return c.readLine()
}

func (c *cli) readLine() string {
	if c.stdin.Scan() {
		return strings.TrimSpace(c.stdin.Text())
	}
	return ""
}

func (c *cli) lookupGrade(ctx context.Context, student, assignment string) {
	result, err := c.svc.LookupGrade(ctx, student, assignment)
	if err != nil {
		color.Red("%v", err)
		return
	}

	grade := result.Grade
	if !result.Submitted {
		grade = "(not submitted)"
	}
	color.Yellow("\n%s - %s", result.Student, result.Assignment)
	fmt.Printf("Grade: %s\n", grade)
}

func (c *cli) studentReport(ctx context.Context, student string) {
	result, err := c.svc.StudentGrades(ctx, student)
	if err != nil {
		color.Red("%v", err)
		return
	}

	color.Yellow("\n%s (section %s, %d completed)", result.Student, result.Section, result.Completed)
	for _, category := range result.Categories {
		color.Cyan("\n%s", category.Category)
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Assignment", "Grade"})
		for _, item := range category.Grades {
			table.Append([]string{item.Assignment, item.Grade})
		}
		table.Render()
	}
}

func (c *cli) assignmentReport(ctx context.Context, assignment string) {
	result, err := c.svc.AssignmentGrades(ctx, assignment)
	if err != nil {
		color.Red("%v", err)
		return
	}

	color.Yellow("\n%s (%d students)", result.Assignment, result.Students)
	for _, section := range result.Sections {
		if len(section.Rows) == 0 {
			continue
		}
		color.Cyan("\nSection %s", section.Section)
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Last Name", "First Name", "Grade"})
		for _, row := range section.Rows {
			table.Append([]string{row.LastName, row.FirstName, row.Grade})
		}
		table.Render()
	}

	if result.Statistics != nil {
		fmt.Printf("\nSubmitted: %d  Mean: %.2f  Max: %.2f  Min: %.2f\n",
			result.Statistics.Count, result.Statistics.Mean,
			result.Statistics.Max, result.Statistics.Min)
	}
}

func (c *cli) exportAssignment(ctx context.Context, assignment string) {
	result, err := c.svc.ExportAssignment(ctx, assignment)
	if err != nil {
		color.Red("Export failed: %v", err)
		return
	}
	color.Green("Export complete: %s", result.URL)
}

func (c *cli) exportSubchapter(ctx context.Context, prefix string) {
	result, err := c.svc.ExportSubchapter(ctx, prefix)
	if err != nil {
		color.Red("Export failed: %v", err)
		return
	}
	color.Green("Export complete: %s", result.URL)
}

func (c *cli) listAssignments() {
	color.Yellow("\nAssignments")
	for _, name := range c.svc.Assignments() {
		fmt.Printf("  %s\n", name)
	}
}

func (c *cli) listSubchapters() {
	color.Yellow("\nKnown sub-chapters: %s", strings.Join(c.svc.SubChapters(), ", "))
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()))
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
