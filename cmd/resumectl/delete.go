package main

import (
	"errors"
	"fmt"

	"github.com/fadilmartias/resume-profiler/internal/bootstrap"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var errAborted = errors.New("delete aborted")

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored resume document and its file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return err
		}

		cfg, err := getConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		deps, err := bootstrap.Build(cmd.Context(), log)
		if err != nil {
			return err
		}
		defer func() { _ = deps.Close() }()
		uc := deps.Usecase(log)

		doc, err := uc.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if !yes {
			prompt := promptui.Prompt{
				Label:     fmt.Sprintf("Delete resume %s (%s)", doc.ID, doc.OriginalFilename),
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
					return errAborted
				}
				return err
			}
		}

		out, err := uc.DeleteResume(cmd.Context(), doc.ID)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
