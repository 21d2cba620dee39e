package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"openconvert/internal/archive"
	"openconvert/internal/queue"
	"openconvert/internal/render"
	"openconvert/internal/transient"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var targetFlag string
	var outputFlag string
	var zipFlag bool

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Queue files and convert them",
		Long: "Queues the given files, converts every pending item in order, and " +
			"saves the produced outputs. Failures are reported per file and never " +
			"stop the remaining conversions.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			progress := newProgressRenderer(out)

			return ctx.withSession(cmd.Context(), progress, func(s *session) error {
				files, err := readSourceFiles(args)
				if err != nil {
					return err
				}

				s.engine.Activate(cmd.Context())
				s.engine.AddFiles(cmd.Context(), files)

				for _, item := range s.engine.Items() {
					if targetFlag != "" {
						s.engine.ChangeTarget(cmd.Context(), item.ID, targetFlag)
					}
				}
				if banner := s.engine.Banner(); banner != "" {
					fmt.Fprintln(out, banner)
				}

				s.engine.Convert(cmd.Context())

				view := render.Build(snapshotOf(s.engine), s.catalog)
				if len(view.Rows) == 0 {
					return fmt.Errorf("no supported files to convert")
				}
				fmt.Fprintln(out, renderQueueView(view))

				outputDir := s.cfg.Paths.OutputDir
				if outputFlag != "" {
					outputDir = outputFlag
				}

				if zipFlag {
					return saveArchive(s, out, outputDir)
				}
				return saveOutputs(s, out, outputDir)
			})
		},
	}

	cmd.Flags().StringVarP(&targetFlag, "to", "t", "", "Target format applied to every queued file")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Directory to save converted files into")
	cmd.Flags().BoolVar(&zipFlag, "zip", false, "Bundle all converted files into one zip archive")
	return cmd
}

// readSourceFiles loads the named files fully into memory; the queue holds
// raw bytes, never open handles.
func readSourceFiles(paths []string) ([]transient.SourceFile, error) {
	files := make([]transient.SourceFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, transient.SourceFile{
			Name: filepath.Base(path),
			Data: data,
		})
	}
	return files, nil
}

func saveOutputs(s *session, out io.Writer, outputDir string) error {
	saver := &dirSaver{dir: outputDir}
	for _, entry := range s.engine.DoneDownloads() {
		if err := saver.Save(entry.Download.FileName, entry.Download.MimeType, entry.Download.Ref); err != nil {
			return err
		}
	}
	for _, path := range saver.saved {
		fmt.Fprintf(out, "Saved %s\n", path)
	}
	return nil
}

func saveArchive(s *session, out io.Writer, outputDir string) error {
	downloads := s.engine.DoneDownloads()
	if len(downloads) == 0 {
		return fmt.Errorf("no converted files to bundle")
	}

	entries := make([]archive.Entry, 0, len(downloads))
	for _, entry := range downloads {
		data, err := os.ReadFile(entry.Download.Ref)
		if err != nil {
			return fmt.Errorf("read spooled output: %w", err)
		}
		entries = append(entries, archive.Entry{FileName: entry.Download.FileName, Data: data})
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	target, err := uniquePath(outputDir, archive.FileName(time.Now()))
	if err != nil {
		return err
	}
	file, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	if err := archive.Build(file, entries); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}

	fmt.Fprintf(out, "Saved %s\n", target)
	return nil
}

// snapshotOf rebuilds a snapshot from the engine's current accessors for
// final rendering outside the render callback.
func snapshotOf(engine *queue.Engine) queue.Snapshot {
	items := engine.Items()
	hasDownload := make(map[string]bool, len(items))
	for _, entry := range engine.DoneDownloads() {
		hasDownload[entry.ItemID] = true
	}
	return queue.Snapshot{
		Items:       items,
		Banner:      engine.Banner(),
		Converting:  engine.Converting(),
		HasDownload: hasDownload,
	}
}
