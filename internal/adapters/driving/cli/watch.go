package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/penmark/internal/connectors/inbox"
	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Assign scanned documents as they arrive in a directory",
	Long: `Watch an inbox directory and assign new documents to the members of a
class. Documents arriving within the collection window are processed as one
batch. Stop with Ctrl+C.

Examples:
  penmark watch --class 7B ~/scans
  penmark watch --class 7B --window 30s --existing ~/scans`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringP("class", "c", "", "Class whose roster to match against (required)")
	watchCmd.Flags().Duration("window", 10*time.Second, "How long to collect documents before assigning")
	watchCmd.Flags().Bool("existing", false, "Assign documents already in the directory first")
	watchCmd.Flags().Float64P("threshold", "t", 0, "Minimum similarity for auto-assignment (default from config)")
	_ = watchCmd.MarkFlagRequired("class")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if assignmentService == nil {
		return errors.New("assignment service not configured")
	}

	classID, _ := cmd.Flags().GetString("class")
	window, _ := cmd.Flags().GetDuration("window")
	existing, _ := cmd.Flags().GetBool("existing")
	threshold, _ := cmd.Flags().GetFloat64("threshold")

	if window <= 0 {
		return fmt.Errorf("window must be positive: %s", window)
	}

	box := inbox.New(args[0])
	defer box.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	maxBatch := engineSettings.Assignment.MaxBatchSize
	opts := domain.AssignOptions{Threshold: threshold}

	flush := func(docs []domain.RawDocument) {
		result, err := assignmentService.AssignClass(ctx, classID, docs, opts)
		if result != nil {
			printAssignment(cmd, result)
			cmd.Println()
		}
		if err != nil {
			logger.Warn("watch: batch failed: %v", err)
		}
	}

	if existing {
		docs, err := box.Scan()
		if err != nil {
			return fmt.Errorf("scanning inbox: %w", err)
		}
		for len(docs) > 0 {
			n := len(docs)
			if maxBatch > 0 && n > maxBatch {
				n = maxBatch
			}
			flush(docs[:n])
			docs = docs[n:]
		}
	}

	in, err := box.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching inbox: %w", err)
	}

	cmd.Printf("Watching %s for class %s (Ctrl+C to stop)\n", box.Root(), classID)
	collectBatches(ctx, in, window, maxBatch, flush)
	return nil
}

// collectBatches groups documents from in into batches. A batch is flushed
// when the window elapses after its first document, when it reaches maxSize
// documents, or when in closes. A document seen again before its batch is
// flushed replaces the earlier copy. Pending documents are dropped when ctx
// is cancelled.
func collectBatches(
	ctx context.Context,
	in <-chan domain.RawDocument,
	window time.Duration,
	maxSize int,
	flush func([]domain.RawDocument),
) {
	var (
		pending []domain.RawDocument
		index   = make(map[string]int)
		timer   *time.Timer
		tick    <-chan time.Time
	)

	emit := func() {
		if timer != nil {
			timer.Stop()
			timer, tick = nil, nil
		}
		if len(pending) == 0 {
			return
		}
		batch := pending
		pending = nil
		index = make(map[string]int)
		flush(batch)
	}
	defer emit()

	for {
		select {
		case <-ctx.Done():
			if len(pending) > 0 {
				logger.Info("watch: dropping %d pending documents", len(pending))
				pending = nil
			}
			return
		case doc, ok := <-in:
			if !ok {
				return
			}
			if i, seen := index[doc.ID]; seen {
				pending[i] = doc
				continue
			}
			index[doc.ID] = len(pending)
			pending = append(pending, doc)
			if timer == nil {
				timer = time.NewTimer(window)
				tick = timer.C
			}
			if maxSize > 0 && len(pending) >= maxSize {
				emit()
			}
		case <-tick:
			timer, tick = nil, nil
			emit()
		}
	}
}
