package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/gradebook/apps/api/echo"
	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/attendance"
	"github.com/trezcool/gradebook/core/evaluation"
)

var (
	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("this command needs the postgres storage")
)

type commandLine struct {
	conf          *core.Config
	db            *sql.DB // nil unless the storage is postgres
	evalSvc       *evaluation.Service
	attendanceSvc *attendance.Service
	validate      *validator.Validate
	out           io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, redo, status, version...)")
	fmt.Fprintln(cli.out, "  setquota -subject ID -type ID -max PERCENT - set the weight quota of an evaluation type")
	fmt.Fprintln(cli.out, "  checkquota -subject ID -type ID [-trimester ID] -requested PERCENT - check a weight against its quota")
	fmt.Fprintln(cli.out, "  summary -subject ID [-from YYYY-MM-DD] [-to YYYY-MM-DD] - print the attendance of a subject")
	fmt.Fprintln(cli.out, "  token -subject ID -username NAME [-teacher] [-admin] [-ttl DURATION] - sign an API token for development")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setQuotaCmd := cli.newFlagSet("setquota")
	setQuotaSubject := setQuotaCmd.Int("subject", 0, "The subject ID.")
	setQuotaType := setQuotaCmd.Int("type", 0, "The evaluation type ID.")
	setQuotaMax := setQuotaCmd.Float64("max", -1, "The maximum percent of the final grade for the type.")

	checkQuotaCmd := cli.newFlagSet("checkquota")
	checkQuotaSubject := checkQuotaCmd.Int("subject", 0, "The subject ID.")
	checkQuotaType := checkQuotaCmd.Int("type", 0, "The evaluation type ID.")
	checkQuotaTrimester := checkQuotaCmd.Int("trimester", 0, "The trimester ID (all trimesters when omitted).")
	checkQuotaRequested := checkQuotaCmd.Float64("requested", 0, "The weight to check.")

	summaryCmd := cli.newFlagSet("summary")
	summarySubject := summaryCmd.Int("subject", 0, "The subject ID.")
	summaryFrom := summaryCmd.String("from", "", "First day, inclusive (beginning of the current year when both bounds are omitted).")
	summaryTo := summaryCmd.String("to", "", "Last day, inclusive.")

	tokenCmd := cli.newFlagSet("token")
	tokenSubject := tokenCmd.String("subject", "", "The user ID.")
	tokenUsername := tokenCmd.String("username", "", "The user's username.")
	tokenTeacher := tokenCmd.Bool("teacher", false, "Grant teacher access.")
	tokenAdmin := tokenCmd.Bool("admin", false, "Grant admin access.")
	tokenTTL := tokenCmd.Duration("ttl", 24*time.Hour, "How long the token is valid.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "setquota":
		if err := setQuotaCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setQuotaSubject <= 0 || *setQuotaType <= 0 || *setQuotaMax < 0 {
			setQuotaCmd.Usage()
			return errHelp
		}
		return cli.setQuota(*setQuotaSubject, *setQuotaType, *setQuotaMax)
	case "checkquota":
		if err := checkQuotaCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *checkQuotaSubject <= 0 || *checkQuotaType <= 0 {
			checkQuotaCmd.Usage()
			return errHelp
		}
		return cli.checkQuota(*checkQuotaSubject, *checkQuotaType, *checkQuotaTrimester, *checkQuotaRequested)
	case "summary":
		if err := summaryCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *summarySubject <= 0 {
			summaryCmd.Usage()
			return errHelp
		}
		return cli.summary(*summarySubject, *summaryFrom, *summaryTo)
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenSubject == "" || *tokenUsername == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenSubject, *tokenUsername, *tokenTeacher, *tokenAdmin, *tokenTTL)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// setQuota configures the quota of an evaluation type within a subject.
func (cli *commandLine) setQuota(subjectID, typeID int, maxPercent float64) error {
	nq := evaluation.NewQuota{TypeID: typeID, MaxPercent: maxPercent}
	if err := nq.Validate(cli.validate); err != nil {
		return err
	}
	qc, err := cli.evalSvc.SetQuota(context.Background(), subjectID, nq)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "subject %d: type %d may weigh up to %s%%\n", qc.SubjectID, qc.TypeID, core.FormatNumber(qc.MaxPercent))
	return nil
}

// checkQuota prints whether requested still fits the quota of an evaluation type.
func (cli *commandLine) checkQuota(subjectID, typeID, trimesterID int, requested float64) error {
	alloc, err := cli.evalSvc.Allocation(context.Background(), subjectID, typeID, trimesterID, requested)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "used %s%% of %s%%\n", core.FormatNumber(alloc.Used), core.FormatNumber(alloc.Max))
	fmt.Fprintln(cli.out, alloc.Message)
	return nil
}

// summary prints the attendance of a subject, one line per class day.
func (cli *commandLine) summary(subjectID int, from, to string) error {
	for _, d := range []string{from, to} {
		if _, err := core.ParseDate(d); d != "" && err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "invalid date, use YYYY-MM-DD"})
		}
	}
	report, err := cli.attendanceSvc.Report(context.Background(), attendance.QueryFilter{SubjectID: subjectID, From: from, To: to})
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "subject %d from %s to %s\n", report.SubjectID, report.From, report.To)
	for _, day := range report.Days {
		fmt.Fprintf(cli.out, "%s (%s): %s\n", day.Date, day.Trimester, summaryLine(day.Summary))
	}
	fmt.Fprintf(cli.out, "total: %s\n", summaryLine(report.Summary))
	return nil
}

func summaryLine(s attendance.Summary) string {
	return fmt.Sprintf("%d present, %d absent (%d justified), %d%% attendance", s.Present, s.Absent, s.Justified, s.PresentRate)
}

// token prints a signed API token.
func (cli *commandLine) token(subject, username string, teacher, admin bool, ttl time.Duration) error {
	claims := echoapi.NewClaims(cli.conf, subject, username, ttl)
	claims.IsTeacher = teacher
	claims.IsAdmin = admin
	claims.IsStudent = !(teacher || admin)

	token, err := echoapi.GenerateToken(cli.conf.SecretKey, claims)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
