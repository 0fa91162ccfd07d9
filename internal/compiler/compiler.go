package compiler

import (
	"io"

	"github.com/rs/zerolog"
)

// Compile runs the full pipeline over src: lexing, parsing, type
// checking, unreachable-code analysis, definite-assignment analysis and,
// finally, interpretation. Each phase is logged at debug level before it
// runs, the way the teacher's internal.Compile logs "compiler: start
// <phase>" before each step, but through a structured zerolog.Logger
// instead of println so callers can route it anywhere (the CLI writes it
// to stderr, silenced unless -verbose or the config's verbose is set).
func Compile(file, src string, out io.Writer, log zerolog.Logger) error {
	log.Debug().Str("phase", "lex+parse").Msg("compiler: start")
	f, err := Parse(file, src)
	if err != nil {
		return err
	}

	log.Debug().Str("phase", "typecheck").Msg("compiler: start")
	if err := TypeCheck(f); err != nil {
		return err
	}

	log.Debug().Str("phase", "reachability").Msg("compiler: start")
	if err := CheckReachability(f); err != nil {
		return err
	}

	log.Debug().Str("phase", "definite-assignment").Msg("compiler: start")
	if err := CheckDefiniteAssignment(f); err != nil {
		return err
	}

	log.Debug().Str("phase", "interpret").Msg("compiler: start")
	ran, err := NewInterp(f, out).Run()
	if err != nil {
		return err
	}
	if !ran {
		log.Warn().Str("file", file).Msg("no method named \"main\" found; nothing to run")
	}
	return nil
}
