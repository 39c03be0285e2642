package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/proncoach/internal/archive"
	"codeberg.org/snonux/proncoach/internal/cli"
	"codeberg.org/snonux/proncoach/internal/coach"
	"codeberg.org/snonux/proncoach/internal/models"
	"codeberg.org/snonux/proncoach/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Handle --archive flag
	if flags.Archive {
		dbPath := flags.HistoryDB
		if viper.IsSet("history.database") {
			dbPath = viper.GetString("history.database")
		}
		if dbPath == "" {
			dbPath = filepath.Join(cli.DefaultStateDir(), "history.db")
		}
		archived, err := archive.ArchiveHistory(dbPath)
		if err != nil {
			return fmt.Errorf("failed to archive history: %w", err)
		}
		fmt.Printf("History archived to: %s\n", archived)
		return nil
	}

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey(), "")
		return lister.ListAvailableModels(ctx, os.Stdout)
	}

	if flags.Check && len(args) != 2 {
		return fmt.Errorf("--check needs a WORD and a TRANSCRIPT")
	}
	if !flags.Check && len(args) > 0 {
		return fmt.Errorf("unexpected arguments %v (did you mean --check?)", args)
	}

	// Create processor
	proc, err := processor.NewProcessor(ctx, flags)
	if err != nil {
		return err
	}
	defer proc.Close()

	switch {
	case flags.ListItems:
		proc.ListItems(os.Stdout)
		return nil

	case flags.Check:
		return runCheck(ctx, proc, args[0], args[1])

	case flags.Transcribe != "":
		transcript, err := proc.TranscribeFile(ctx, flags.Transcribe)
		if err != nil {
			return fmt.Errorf("%s: %w", coach.UserMessage(err), err)
		}
		fmt.Printf("%s\n", transcript.Text)
		fmt.Printf("(provider: %s)\n", transcript.Provider)
		return nil

	default:
		return proc.Serve(ctx)
	}
}

func runCheck(ctx context.Context, proc *processor.Processor, word, transcript string) error {
	result, err := proc.Check(ctx, word, transcript)
	if err != nil {
		return fmt.Errorf("%s: %w", coach.UserMessage(err), err)
	}

	verdict := "✗ Not quite"
	if result.IsCorrect {
		verdict = "✓ Correct"
	}
	fmt.Printf("%s: %s\n", verdict, word)
	fmt.Printf("Feedback: %s\n", result.Feedback)
	fmt.Printf("Tip: %s\n", result.Tip)
	return nil
}
