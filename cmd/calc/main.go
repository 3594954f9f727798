// Command calc drives the calculator engine from a terminal. Buttons are read
// as whitespace-separated tokens and the display is printed after each one.
//
//	$ echo "5 + 3 * 2 =" | calc
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"calc-weather/internal/calculator"
	"calc-weather/internal/observability"
)

func main() {
	verbose := flag.Bool("v", false, "log engine errors to stderr")
	flag.Parse()

	if *verbose {
		if err := observability.InitLogger("debug"); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer observability.SyncLogger()
	}

	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run feeds every token from in through one engine, writing the display after
// each recognised button. Unknown tokens are skipped.
func run(in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	sc.Split(bufio.ScanWords)

	state := calculator.NewState()
	for sc.Scan() {
		tok := sc.Text()

		b, err := calculator.ParseButton(tok)
		if err != nil {
			observability.Logger.Debug("ignored token", zap.String("token", tok))
			continue
		}

		state, err = calculator.Step(state, b)
		if err != nil && !errors.Is(err, calculator.ErrUnknownButton) {
			observability.Logger.Debug("engine error", zap.String("button", tok), zap.Error(err))
		}

		if _, err := fmt.Fprintln(out, state.Display); err != nil {
			return err
		}
	}
	return sc.Err()
}
