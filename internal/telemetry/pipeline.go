package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/backlog-md/board/internal/lanes"
	"github.com/backlog-md/board/internal/loader"
	"github.com/backlog-md/board/internal/types"
)

const pipelineScopeName = "github.com/backlog-md/board/pipeline"

// Pipeline wraps snapshot loading, board building and reorder computation
// with spans and board.* metrics. With telemetry disabled the global no-op
// providers make every call a plain pass-through.
type Pipeline struct {
	tracer     trace.Tracer
	ops        metric.Int64Counter
	dur        metric.Float64Histogram
	errs       metric.Int64Counter
	tasks      metric.Int64Gauge
	collisions metric.Int64Counter
	fallbacks  metric.Int64Counter
}

// NewPipeline instruments against the global providers installed by Init.
func NewPipeline() *Pipeline {
	return NewPipelineWith(Tracer(pipelineScopeName), Meter(pipelineScopeName))
}

// NewPipelineWith instruments against explicit providers.
func NewPipelineWith(tracer trace.Tracer, m metric.Meter) *Pipeline {
	ops, _ := m.Int64Counter("board.pipeline.operations",
		metric.WithDescription("Total pipeline operations executed"),
	)
	dur, _ := m.Float64Histogram("board.pipeline.operation.duration",
		metric.WithDescription("Pipeline operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("board.pipeline.errors",
		metric.WithDescription("Total pipeline operation errors"),
	)
	tasks, _ := m.Int64Gauge("board.task.count",
		metric.WithDescription("Tasks in the last built board, by lane mode"),
	)
	collisions, _ := m.Int64Counter("board.milestone.alias_collisions",
		metric.WithDescription("Milestone alias keys that could not be claimed"),
	)
	fallbacks, _ := m.Int64Counter("board.reorder.fallbacks",
		metric.WithDescription("Reorders that fell back to the status template order"),
	)
	return &Pipeline{
		tracer:     tracer,
		ops:        ops,
		dur:        dur,
		errs:       errs,
		tasks:      tasks,
		collisions: collisions,
		fallbacks:  fallbacks,
	}
}

// op starts a span and counts the named pipeline operation.
func (p *Pipeline) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("board.operation", name)}, attrs...)
	ctx, span := p.tracer.Start(ctx, "board."+name, trace.WithAttributes(all...))
	p.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error.
func (p *Pipeline) done(ctx context.Context, span trace.Span, start time.Time, name string, err error) {
	attrs := metric.WithAttributes(attribute.String("board.operation", name))
	p.dur.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.errs.Add(ctx, 1, attrs)
	}
	span.End()
}

// Load runs a snapshot loader under a "board.load" span.
func (p *Pipeline) Load(ctx context.Context, source string, load func(context.Context) (*loader.Snapshot, error)) (*loader.Snapshot, error) {
	ctx, span, start := p.op(ctx, "load", attribute.String("board.source", source))
	snap, err := load(ctx)
	if err == nil {
		span.SetAttributes(
			attribute.Int("board.tasks", len(snap.Tasks)),
			attribute.Int("board.milestones", len(snap.Milestones)),
			attribute.Int("board.archived_milestones", len(snap.ArchivedMilestones)),
		)
	}
	p.done(ctx, span, start, "load", err)
	return snap, err
}

// Build computes the board for snap.
func (p *Pipeline) Build(ctx context.Context, snap *loader.Snapshot, opts lanes.Options) *lanes.Board {
	ctx, span, start := p.op(ctx, "build", attribute.String("board.lane_mode", string(opts.Mode)))

	opts.Milestones.Milestones = snap.Milestones
	opts.Milestones.ArchivedMilestones = snap.ArchivedMilestones
	opts.Milestones.ArchivedMilestoneIDs = append(append([]string(nil), opts.Milestones.ArchivedMilestoneIDs...), snap.ArchivedMilestoneIDs...)
	b := lanes.Build(snap.Tasks, opts)

	collisions := len(b.Aliases.Collisions())
	span.SetAttributes(
		attribute.Int("board.lanes", len(b.Lanes)),
		attribute.Int("board.statuses", len(b.Grouping.Statuses())),
		attribute.Int("board.alias_collisions", collisions),
	)
	modeAttr := metric.WithAttributes(attribute.String("board.lane_mode", string(opts.Mode)))
	p.tasks.Record(ctx, int64(b.Grouping.Count()), modeAttr)
	if collisions > 0 {
		p.collisions.Add(ctx, int64(collisions))
	}
	p.done(ctx, span, start, "build", nil)
	return b
}

// Reorder computes the reorder payload for req. Moves whose merged order was
// rejected for the template order are counted as fallbacks.
func (p *Pipeline) Reorder(ctx context.Context, req types.ReorderRequest) types.ReorderPayload {
	ctx, span, start := p.op(ctx, "reorder",
		attribute.String("board.task_id", req.TaskID),
		attribute.String("board.target_status", req.TargetStatus),
	)
	result := lanes.Reorder(req)
	if result.FellBack {
		p.fallbacks.Add(ctx, 1)
		span.AddEvent("fallback to template order")
	}
	span.SetAttributes(
		attribute.String("board.target_milestone", result.Payload.TargetMilestone),
		attribute.Int("board.ordered_tasks", len(result.Payload.OrderedTaskIDs)),
	)
	p.done(ctx, span, start, "reorder", nil)
	return result.Payload
}
