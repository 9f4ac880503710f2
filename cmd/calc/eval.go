package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go-calculator/internal/calc"
	"go-calculator/internal/input"
)

var evalRaw bool

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tag, err := cfg.LocaleTag()
	if err != nil {
		return err
	}

	keys, err := input.Sequence(args[0])
	if err != nil {
		return err
	}
	state, err := input.Replay(calc.State{}, keys)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if evalRaw {
		fmt.Fprintf(out, "previous=%s operation=%s current=%s overwrite=%t\n",
			state.Previous, state.Operation, state.Current, state.Overwrite)
		return nil
	}

	d := calc.NewFormatter(tag).Render(state)
	if d.Previous != "" {
		fmt.Fprintln(out, d.Previous)
	}
	fmt.Fprintln(out, d.Current)
	return nil
}
