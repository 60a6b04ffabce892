package orchestration

import (
	"context"
	"errors"
	"fmt"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/helm"
	"github.com/imamik/statehub/internal/receipt"
)

// openReceipt loads the previous receipt when resuming, or starts a new one.
// A receipt written for other states or another namespace cannot be
// resumed; any other receipt failure only disables resuming.
func (r *Registrar) openReceipt(ctx context.Context, reg *registration) error {
	if r.receipts == nil {
		return nil
	}

	if reg.opts.Resume {
		prev, err := r.receipts.Load(ctx, reg.name)
		switch {
		case err == nil:
			if err := prev.Matches(reg.opts.Namespace, reg.opts.States); err != nil {
				return fmt.Errorf("cannot resume registration of %s: %w, rerun without --resume to start over", reg.name, err)
			}
			reg.receipt = prev
			reg.report.Resumed = true
			r.log.Info("Resuming registration", "cluster", reg.name, "completed", prev.Completed)
			return nil
		case errors.Is(err, receipt.ErrNotFound):
			r.log.Info("No previous registration to resume, starting over", "cluster", reg.name)
		default:
			r.log.Error(err, "Failed to load registration receipt, starting over", "cluster", reg.name)
		}
	}

	reg.receipt = receipt.New(reg.name, reg.opts.Namespace, reg.opts.States)
	return nil
}

func (r *Registrar) saveReceipt(ctx context.Context, reg *registration, step Step) {
	if r.receipts == nil || reg.receipt == nil {
		return
	}
	reg.receipt.Mark(string(step))
	if err := r.receipts.Save(ctx, reg.receipt); err != nil {
		r.log.Error(err, "Failed to save registration receipt", "cluster", reg.name, "step", step)
	}
}

// saveInstalled records the releases that installed successfully. results
// are in cmds order.
func (r *Registrar) saveInstalled(ctx context.Context, reg *registration, cmds []helm.Command, results []helm.Result) {
	if r.receipts == nil || reg.receipt == nil {
		return
	}
	changed := false
	for i, res := range results {
		if i < len(cmds) && res.Success {
			reg.receipt.MarkInstalled(cmds[i].Release)
			changed = true
		}
	}
	if !changed {
		return
	}
	if err := r.receipts.Save(ctx, reg.receipt); err != nil {
		r.log.Error(err, "Failed to save registration receipt", "cluster", reg.name, "step", StepInstallHelm)
	}
}

func (r *Registrar) deleteReceipt(ctx context.Context, cluster v1.ClusterName) {
	if r.receipts == nil {
		return
	}
	if err := r.receipts.Delete(ctx, cluster); err != nil {
		r.log.Error(err, "Failed to delete registration receipt", "cluster", cluster)
	}
}
