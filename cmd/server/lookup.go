package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vitalens/backend/internal/domain"
)

var (
	analyseAliment   string
	analyseImageFile string
)

var analyseCmd = &cobra.Command{
	Use:   "analyse",
	Short: "Identify a food and report its Vitamin K content",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		query := domain.FoodQuery{Aliment: strings.TrimSpace(analyseAliment)}
		if analyseImageFile != "" {
			dataURI, err := readImageDataURI(analyseImageFile)
			if err != nil {
				return err
			}
			query.Image = dataURI
		}
		if query.IsEmpty() {
			return errors.New("one of --aliment or --image-file is required")
		}

		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		lookup, err := newLookupService(cfg, logger)
		if err != nil {
			return err
		}
		analysis, closeModel, err := newAnalysisService(cmd.Context(), cfg, lookup, logger)
		if err != nil {
			return err
		}
		defer closeModel()

		result, err := analysis.Analyse(cmd.Context(), query)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <name>",
	Short: "List CIQUAL entries matching a food name, with their Vitamin K1 values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		lookup, err := newLookupService(cfg, logger)
		if err != nil {
			return err
		}

		candidates, err := lookup.LookupWithValues(cmd.Context(), strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		if candidates == nil {
			candidates = []domain.Candidate{}
		}
		return printJSON(cmd.OutOrStdout(), candidates)
	},
}

var bestCmd = &cobra.Command{
	Use:   "best <name>",
	Short: "Show the closest CIQUAL entry for a food name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		lookup, err := newLookupService(cfg, logger)
		if err != nil {
			return err
		}

		candidate, err := lookup.LookupBest(cmd.Context(), strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), candidate)
	},
}

func init() {
	analyseCmd.Flags().StringVar(&analyseAliment, "aliment", "", "Food name, e.g. basilic")
	analyseCmd.Flags().StringVar(&analyseImageFile, "image-file", "", "Path to a food photo")

	rootCmd.AddCommand(analyseCmd, suggestCmd, bestCmd)
}

// readImageDataURI encodes a local image file as a base64 data URI
func readImageDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", domain.ErrInvalidImage, path)
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: %s is %s", domain.ErrInvalidImage, path, mimeType)
	}

	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
