package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/yeti47/vidfolio/server/core/videos"
)

func newVideosCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "videos",
		Short: "Inspect and maintain the video list",
	}

	cmd.AddCommand(newVideosListCommand(ctx))
	cmd.AddCommand(newVideosFeaturedCommand(ctx))
	cmd.AddCommand(newVideosDeleteCommand(ctx))
	cmd.AddCommand(newVideosExportCommand(ctx))
	cmd.AddCommand(newVideosImportCommand(ctx))

	return cmd
}

func newVideosListCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		category   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all videos in display order",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}

			list, err := services.Catalog.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list videos: %w", err)
			}

			if category != "" {
				filter := videos.Category(category)
				if !filter.IsValid() {
					return fmt.Errorf("unknown category %q", category)
				}
				filtered := make([]videos.Video, 0, len(list))
				for _, v := range list {
					if v.Category == filter {
						filtered = append(filtered, v)
					}
				}
				list = filtered
			}

			if jsonOutput {
				return writeJSON(cmd, list)
			}
			return printVideoTable(cmd, list)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the videos as JSON")
	cmd.Flags().StringVar(&category, "category", "", "Only list videos of this category")
	return cmd
}

func newVideosFeaturedCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "featured",
		Short: "Show the videos the landing page features",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}

			featured := services.Featured.Featured(cmd.Context())
			if jsonOutput {
				return writeJSON(cmd, featured)
			}
			return printVideoTable(cmd, featured)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the videos as JSON")
	return cmd
}

func newVideosDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}

			removed, err := services.Catalog.Remove(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("delete video: %w", err)
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "No video with id %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted video %s\n", args[0])
			return nil
		},
	}
}

func newVideosExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the video list as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}

			list, err := services.Catalog.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list videos: %w", err)
			}

			if output == "" || output == "-" {
				return writeJSON(cmd, list)
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := encodeJSON(file, list); err != nil {
				file.Close()
				return fmt.Errorf("write %s: %w", output, err)
			}
			if err := file.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d videos to %s\n", len(list), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (stdout when empty)")
	return cmd
}

func newVideosImportCommand(ctx *commandContext) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Load videos from a JSON export",
		Long: "Reads a JSON array of videos. Entries whose id is already in use are skipped " +
			"unless --replace is given, which overwrites the whole list with the file contents.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			incoming, err := readVideoFile(args[0])
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			for i := range incoming {
				if err := normalizeImported(&incoming[i], now); err != nil {
					return fmt.Errorf("entry %d: %w", i+1, err)
				}
			}

			services, err := ctx.ensureServices(cmd.Context())
			if err != nil {
				return err
			}

			if replace {
				if err := services.Catalog.ReplaceAll(cmd.Context(), incoming); err != nil {
					return fmt.Errorf("replace videos: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Replaced video list with %d videos\n", len(incoming))
				return nil
			}

			imported, skipped := 0, 0
			for _, v := range incoming {
				err := services.Catalog.Append(cmd.Context(), v)
				switch {
				case err == nil:
					imported++
				case videos.IsVideoAlreadyExistsError(err):
					skipped++
				default:
					return fmt.Errorf("import %s: %w", v.ID, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d videos, skipped %d existing\n", imported, skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Overwrite the stored list instead of appending")
	return cmd
}

func readVideoFile(path string) ([]videos.Video, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var list []videos.Video
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return list, nil
}

// normalizeImported fills in a missing id and date and rejects entries the dashboard could not have produced
func normalizeImported(v *videos.Video, now time.Time) error {
	if strings.TrimSpace(v.ID) == "" {
		v.ID = uuid.New().String()
	}
	if v.DateAdded.IsZero() {
		v.DateAdded = now
	}
	if v.Category != videos.CategoryYouTube {
		v.YoutubeID = ""
	}
	return videos.ValidateFields(v.Title, v.Description, v.Duration, v.Resolution, v.Category, v.YoutubeID)
}

func printVideoTable(cmd *cobra.Command, list []videos.Video) error {
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No videos")
		return nil
	}

	rows := make([][]string, 0, len(list))
	for _, v := range list {
		rows = append(rows, []string{
			v.ID,
			v.Title,
			string(v.Category),
			v.Duration,
			v.Resolution,
			mediaSummary(v),
			v.DateAdded.Local().Format("2006-01-02 15:04"),
		})
	}

	headers := []string{"ID", "Title", "Category", "Duration", "Resolution", "Media", "Added"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	return nil
}

func mediaSummary(v videos.Video) string {
	switch {
	case v.Category == videos.CategoryYouTube:
		return "youtube:" + v.YoutubeID
	case strings.HasPrefix(v.VideoURL, "data:"):
		return "embedded"
	case v.HasVideo():
		return "linked"
	}
	return "none"
}
