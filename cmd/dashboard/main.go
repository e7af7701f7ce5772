// Command dashboard is a terminal view of the HirePath candidates API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"hirepath-backend/internal/domain"
	"hirepath-backend/pkg/client"
)

const defaultAPI = "http://localhost:3001"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: dashboard [-api URL] [command] [options]

Commands:
  (none)       [-page N] [-status S] [-search Q]   stat cards and candidate table
  overview                                        full statistics
  show         <id>                               one candidate
  create       -name -email -skills [-experience -resume -notes]
  edit         <id> [-name -email -skills -experience -status -resume -notes]
  archive      <id>...
  unarchive    <id>...
  set-status   <active|inactive|archived> <id>...
  delete       <id>

Environment:
  HIREPATH_API_URL   override default http://localhost:3001
`)
}

// run executes one dashboard command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { usage(stderr) }

	base := os.Getenv("HIREPATH_API_URL")
	if base == "" {
		base = defaultAPI
	}
	api := global.String("api", base, "API base URL")
	if err := global.Parse(args); err != nil {
		return 2
	}

	c := client.New(*api, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rest := global.Args()
	cmd := ""
	if len(rest) > 0 && !strings.HasPrefix(rest[0], "-") {
		cmd, rest = rest[0], rest[1:]
	}

	var err error
	switch cmd {
	case "":
		err = showDashboard(ctx, c, rest, stdout, stderr)
	case "overview":
		err = showOverview(ctx, c, stdout)
	case "show":
		err = showCandidate(ctx, c, rest, stdout)
	case "create":
		err = createCandidate(ctx, c, rest, stdout, stderr)
	case "edit":
		err = editCandidate(ctx, c, rest, stdout, stderr)
	case "archive":
		err = bulk(ctx, c, domain.BulkRequest{Action: domain.BulkArchive, IDs: rest}, stdout)
	case "unarchive":
		err = bulk(ctx, c, domain.BulkRequest{Action: domain.BulkUnarchive, IDs: rest}, stdout)
	case "set-status":
		if len(rest) < 1 {
			err = errors.New("set-status needs a status and at least one id")
			break
		}
		err = bulk(ctx, c, domain.BulkRequest{
			Action: domain.BulkUpdateStatus,
			IDs:    rest[1:],
			Data:   &domain.BulkData{Status: rest[0]},
		}, stdout)
	case "delete":
		err = deleteCandidate(ctx, c, rest, stdout)
	case "help":
		usage(stdout)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n\n", cmd)
		usage(stderr)
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func showDashboard(ctx context.Context, c *client.Client, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(stderr)
	page := fs.Int("page", 1, "page number")
	status := fs.String("status", domain.StatusAll, "status filter")
	search := fs.String("search", "", "search text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	list, err := c.List(ctx, client.ListParams{
		Search: *search,
		Status: *status,
		Page:   *page,
		Limit:  domain.DashboardLimit,
	})
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}

	fmt.Fprintf(stdout, "Total: %d   Active: %d   Archived: %d   Avg experience: %.1f yrs\n\n",
		stats.Total, stats.Active, stats.Archived, stats.AverageExperience)

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSKILLS\tEXP\tSTATUS")
	for _, cand := range list.Data {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			cand.ID, cand.Name, cand.Email, cand.Skills.String(), cand.Experience, cand.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	p := list.Pagination
	fmt.Fprintf(stdout, "\nPage %d of %d (%d candidates)\n", p.Page, max(p.TotalPages, 1), p.Total)
	return nil
}

func showOverview(ctx context.Context, c *client.Client, stdout io.Writer) error {
	s, err := c.Overview(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Total: %d\nActive: %d\nInactive: %d\nArchived: %d\nAverage experience: %.1f yrs\n",
		s.Total, s.Active, s.Inactive, s.Archived, s.AverageExperience)
	return nil
}

func showCandidate(ctx context.Context, c *client.Client, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("show needs exactly one id")
	}
	cand, err := c.Get(ctx, args[0])
	if err != nil {
		return err
	}
	printCandidate(stdout, cand)
	return nil
}

func createCandidate(ctx context.Context, c *client.Client, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	skills := fs.String("skills", "", "comma-separated skills")
	experience := fs.Int("experience", 0, "years of experience")
	resume := fs.String("resume", "", "resume link")
	notes := fs.String("notes", "", "notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cand, err := c.Create(ctx, client.CandidatePayload{
		Name:       *name,
		Email:      *email,
		Skills:     domain.ParseSkillTokens(*skills),
		Experience: *experience,
		ResumeLink: *resume,
		Notes:      *notes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Created candidate")
	printCandidate(stdout, cand)
	return nil
}

// editCandidate loads the record, overlays only the flags that were given and
// saves the result.
func editCandidate(ctx context.Context, c *client.Client, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		return errors.New("edit needs an id")
	}
	id := args[0]

	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email address")
	skills := fs.String("skills", "", "comma-separated skills")
	experience := fs.Int("experience", 0, "years of experience")
	status := fs.String("status", "", "active, inactive or archived")
	resume := fs.String("resume", "", "resume link")
	notes := fs.String("notes", "", "notes")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	current, err := c.Get(ctx, id)
	if err != nil {
		return err
	}

	payload := client.CandidatePayload{
		Name:       current.Name,
		Email:      current.Email,
		Skills:     current.Skills,
		Experience: current.Experience,
		Status:     current.Status,
	}
	if current.ResumeLink != nil {
		payload.ResumeLink = *current.ResumeLink
	}
	if current.Notes != nil {
		payload.Notes = *current.Notes
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			payload.Name = *name
		case "email":
			payload.Email = *email
		case "skills":
			payload.Skills = domain.ParseSkillTokens(*skills)
		case "experience":
			payload.Experience = *experience
		case "status":
			payload.Status = *status
		case "resume":
			payload.ResumeLink = *resume
		case "notes":
			payload.Notes = *notes
		}
	})

	updated, err := c.Update(ctx, id, payload)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Updated candidate")
	printCandidate(stdout, updated)
	return nil
}

func bulk(ctx context.Context, c *client.Client, req domain.BulkRequest, stdout io.Writer) error {
	if len(req.IDs) == 0 {
		return fmt.Errorf("%s needs at least one id", req.Action)
	}
	res, err := c.Bulk(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s (%d affected)\n", res.Message, res.Affected)
	return nil
}

func deleteCandidate(ctx context.Context, c *client.Client, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return errors.New("delete needs exactly one id")
	}
	if err := c.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(stdout, "Candidate deleted successfully")
	return nil
}

func printCandidate(w io.Writer, c *domain.Candidate) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", c.ID)
	fmt.Fprintf(tw, "Name\t%s\n", c.Name)
	fmt.Fprintf(tw, "Email\t%s\n", c.Email)
	fmt.Fprintf(tw, "Skills\t%s\n", c.Skills.String())
	fmt.Fprintf(tw, "Experience\t%d yrs\n", c.Experience)
	fmt.Fprintf(tw, "Status\t%s\n", c.Status)
	if c.ResumeLink != nil {
		fmt.Fprintf(tw, "Resume\t%s\n", *c.ResumeLink)
	}
	if c.Notes != nil {
		fmt.Fprintf(tw, "Notes\t%s\n", *c.Notes)
	}
	fmt.Fprintf(tw, "Created\t%s\n", c.CreatedAt.Format(time.RFC1123))
	_ = tw.Flush()
}
