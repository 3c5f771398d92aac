package internal

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/MrSnakeDoc/linkvault/internal/errs"
	"github.com/MrSnakeDoc/linkvault/internal/links"
	"github.com/MrSnakeDoc/linkvault/internal/logger"
	"github.com/MrSnakeDoc/linkvault/internal/middleware"
	"github.com/MrSnakeDoc/linkvault/internal/models"
	"github.com/MrSnakeDoc/linkvault/internal/utils"

	"github.com/spf13/cobra"
)

func NewPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push [urls...]",
		Short: "Merge URLs into the store",
		Long: `Merge URLs into the GitHub store. URLs already present are counted as
duplicates and left untouched. Nothing is committed when every URL is a duplicate.

--file accepts either a {"urls": [...]} document or one URL per line.

Examples:
  linkvault push https://gofile.io/d/abc123
  linkvault push --file batch.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := middleware.Get[*links.Service](cmd, middleware.CtxKeyService)
			if err != nil {
				return err
			}

			file, _ := cmd.Flags().GetString("file")
			if len(args) == 0 && file == "" {
				return middleware.FlagComboError(errs.NoURLs)
			}

			incoming := utils.Map(args, svc.NewRecord)
			if file != "" {
				fromFile, err := readURLFile(svc, file)
				if err != nil {
					return err
				}
				incoming = append(incoming, fromFile...)
			}

			res, err := svc.Save(cmd.Context(), incoming)
			if err != nil {
				return err
			}

			if !res.Written {
				logger.Info("%s (duplicates: %d, total: %d)", res.Message, res.Duplicates, res.Total)
				return nil
			}
			logger.Success("%s (duplicates: %d, total: %d)", res.Message, res.Duplicates, res.Total)
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "Read URLs from a JSON document or a plain list")
	return cmd
}

func readURLFile(svc *links.Service, path string) ([]models.URLRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		doc, err := models.ParseDocument(trimmed)
		if err != nil {
			return nil, errs.Wrap(errs.InvalidBody, err)
		}
		return doc.URLs, nil
	}

	lines := utils.Map(strings.Split(string(data), "\n"), strings.TrimSpace)
	lines = utils.Filter(lines, func(l string) bool {
		return l != "" && !strings.HasPrefix(l, "#")
	})
	return utils.Map(lines, svc.NewRecord), nil
}
