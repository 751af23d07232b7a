package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/extract"
	"github.com/spigell/resume-analyzer/internal/view"
)

const (
	PromptAnalyzeAgain = "Analyze again"
	PromptReload       = "Reload files and analyze"
	PromptQuit         = "Quit"
)

var errExit = errors.New("exit requested")

var nextPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptAnalyzeAgain, PromptReload, PromptQuit},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume against a job description and print the report",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("resume", "r", "", "resume file (.txt, .md, .pdf or .docx)")
	analyzeCmd.Flags().String("job", "", "job description file (.txt, .md, .pdf or .docx)")
	analyzeCmd.Flags().BoolP("interactive", "i", false, "ask what to do after every report")

	analyzeCmd.MarkFlagRequired("resume")
	analyzeCmd.MarkFlagRequired("job")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup()
	defer logger.Sync()

	resumePath, _ := cmd.Flags().GetString("resume")
	jobPath, _ := cmd.Flags().GetString("job")
	interactive, _ := cmd.Flags().GetBool("interactive")

	analyzer, err := newAnalyzer(ctx, config.AI.Gemini, logger)
	if err != nil {
		logger.Fatal("building analyzer", zap.Error(err))
	}

	logger.Info("starting the resume-analyzer", zap.String("version", version), zap.String("model", analyzer.Model()))

	ctrl := view.NewController(analyzer, logger)
	if err := loadInputs(ctrl, resumePath, jobPath); err != nil {
		logger.Fatal("reading inputs", zap.Error(err))
	}

	out := cmd.OutOrStdout()
	for {
		state, err := analyzeOnce(ctx, ctrl, out)
		if err != nil {
			logger.Fatal("analysis", zap.Error(err))
		}

		if !interactive {
			if view.Display(state) == view.DisplayError {
				logger.Sync()
				os.Exit(1)
			}
			return
		}

		if err := next(promptChoice, ctrl, resumePath, jobPath, logger); errors.Is(err, errExit) {
			return
		}
	}
}

// loadInputs reads both files into the controller.
func loadInputs(ctrl *view.Controller, resumePath, jobPath string) error {
	resume, err := extract.ReadFile(resumePath)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}

	jobDescription, err := extract.ReadFile(jobPath)
	if err != nil {
		return fmt.Errorf("job description: %w", err)
	}

	ctrl.SetResume(resume)
	ctrl.SetJobDescription(jobDescription)
	return nil
}

func analyzeOnce(ctx context.Context, ctrl *view.Controller, out io.Writer) (view.State, error) {
	fmt.Fprintln(out, "Analyzing...")

	if err := ctrl.TriggerAnalysis(ctx); err != nil {
		return view.State{}, err
	}

	state := ctrl.Snapshot()
	fmt.Fprintln(out)
	if err := view.RenderText(out, state); err != nil {
		return state, fmt.Errorf("rendering report: %w", err)
	}

	return state, nil
}

// chooser asks the user what to do after a report.
type chooser func() (string, error)

func promptChoice() (string, error) {
	_, choice, err := nextPrompt.Run()
	return choice, err
}

// next returns nil when another analysis should run and errExit otherwise.
// A failed reload keeps the previous inputs and asks again.
func next(choose chooser, ctrl *view.Controller, resumePath, jobPath string, logger *zap.Logger) error {
	for {
		choice, err := choose()
		if err != nil {
			// ^C or ^D
			return errExit
		}

		switch choice {
		case PromptAnalyzeAgain:
			return nil
		case PromptReload:
			if err := loadInputs(ctrl, resumePath, jobPath); err != nil {
				logger.Error("reading inputs, previous inputs kept", zap.Error(err))
				continue
			}
			return nil
		default:
			return errExit
		}
	}
}
