package main

import (
	"context"
	"log"
	"os"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/attendance"
	"github.com/trezcool/gradebook/core/evaluation"
	"github.com/trezcool/gradebook/storage/database"
	inmemdb "github.com/trezcool/gradebook/storage/database/inmem"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	evaluation.InitValidators(validate, translator)

	cli := commandLine{
		conf:     conf,
		validate: validate,
		out:      os.Stdout,
	}

	// set up storage
	switch conf.Storage {
	case core.StoragePostgres:
		db, err := database.Open(context.Background(), conf)
		errAndDie(err)
		defer db.Close()

		cli.db = db.DB
		cli.evalSvc = evaluation.NewService(sqlxrepos.NewEvaluationRepository(db))
		cli.attendanceSvc = attendance.NewService(sqlxrepos.NewAttendanceRepository(db))
	default:
		logger.Printf("storage %q is not persistent: only token and checkquota are meaningful", conf.Storage)
		db, err := inmemdb.Open()
		errAndDie(err)

		cli.evalSvc = evaluation.NewService(inmemdb.NewEvaluationRepository(db))
		cli.attendanceSvc = attendance.NewService(inmemdb.NewAttendanceRepository(db))
	}

	// start CLI
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", describe(err, translator))
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

// describe lists the field errors of a validation failure, one per line.
func describe(err error, translator ut.Translator) string {
	switch cause := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		msgs := make([]string, 0, len(cause))
		for _, fe := range cause {
			msgs = append(msgs, fe.Field()+": "+fe.Translate(translator))
		}
		return strings.Join(msgs, "\n")
	case *core.ValidationError:
		msgs := make([]string, 0, len(cause.Fields))
		for _, fe := range cause.Fields {
			msgs = append(msgs, fe.Field+": "+fe.Error)
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "\n")
		}
	}
	return err.Error()
}
