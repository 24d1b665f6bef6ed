package newsletter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/flyt"

	"github.com/dmitrymomot/newsletter/pkg/agent"
	"github.com/dmitrymomot/newsletter/pkg/mailer"
	"github.com/dmitrymomot/newsletter/pkg/sanitizer"
)

const (
	keyDate   = "date"
	keyResult = "result"
	keyRaw    = "raw_digest"
	keyText   = "plain_text"

	actionSkip   flyt.Action = "skip"
	actionDryRun flyt.Action = "dry_run"
)

// flow wires a fresh set of nodes; flyt nodes must not be shared between runs.
//
//	guard -> fetch -> sanitize -> dispatch -> mark sent
//	  |                  |
//	 skip             dry_run
func (r *Runner) flow() *flyt.Flow {
	guard := &guardNode{BaseNode: flyt.NewBaseNode(), r: r}
	fetch := &fetchNode{BaseNode: flyt.NewBaseNode(), r: r}
	clean := &sanitizeNode{BaseNode: flyt.NewBaseNode(), r: r}
	send := &dispatchNode{BaseNode: flyt.NewBaseNode(), r: r}
	mark := &markSentNode{BaseNode: flyt.NewBaseNode(), r: r}

	flow := flyt.NewFlow(guard)
	flow.Connect(guard, flyt.DefaultAction, fetch)
	flow.Connect(fetch, flyt.DefaultAction, clean)
	flow.Connect(clean, flyt.DefaultAction, send)
	flow.Connect(send, flyt.DefaultAction, mark)
	return flow
}

func resultFrom(shared *flyt.SharedStore) *Result {
	v, _ := shared.Get(keyResult)
	res, _ := v.(*Result)
	return res
}

type guardNode struct {
	*flyt.BaseNode
	r *Runner
}

func (n *guardNode) Prep(_ context.Context, shared *flyt.SharedStore) (any, error) {
	return resultFrom(shared).IdempotencyKey, nil
}

func (n *guardNode) Exec(ctx context.Context, prep any) (any, error) {
	if n.r.guard == nil || n.r.force || n.r.dryRun {
		return false, nil
	}
	sent, err := n.r.guard.Sent(ctx, prep.(string))
	if err != nil {
		n.r.logger.WarnContext(ctx, "send guard unavailable, continuing",
			slog.Any("error", err),
		)
		return false, nil
	}
	return sent, nil
}

func (n *guardNode) Post(_ context.Context, shared *flyt.SharedStore, _, exec any) (flyt.Action, error) {
	if exec.(bool) {
		resultFrom(shared).Skipped = true
		return actionSkip, nil
	}
	return flyt.DefaultAction, nil
}

type fetchNode struct {
	*flyt.BaseNode
	r *Runner
}

func (n *fetchNode) Prep(_ context.Context, shared *flyt.SharedStore) (any, error) {
	v, _ := shared.Get(keyDate)
	return v, nil
}

func (n *fetchNode) Exec(ctx context.Context, prep any) (any, error) {
	fetched, err := n.r.fetcher.Fetch(ctx, prep.(time.Time))
	if err != nil {
		return nil, &ContentFetchError{Err: err}
	}
	if fetched == nil || fetched.Response == nil {
		return nil, &ContentFetchError{Err: agent.ErrEmptyContent}
	}
	return fetched.Response, nil
}

func (n *fetchNode) Post(_ context.Context, shared *flyt.SharedStore, _, exec any) (flyt.Action, error) {
	resp := exec.(*agent.Response)
	shared.Set(keyRaw, resp.Content)
	resultFrom(shared).Sources = resp.Sources
	return flyt.DefaultAction, nil
}

type sanitizeNode struct {
	*flyt.BaseNode
	r *Runner
}

type sanitized struct {
	html     string
	text     string
	problems []sanitizer.Problem
}

func (n *sanitizeNode) Prep(_ context.Context, shared *flyt.SharedStore) (any, error) {
	v, _ := shared.Get(keyRaw)
	return v, nil
}

func (n *sanitizeNode) Exec(ctx context.Context, prep any) (any, error) {
	digest := sanitizer.StripCodeFences(prep.(string))

	if n.r.markdownFallback && digest != "" && !sanitizer.HasElements(digest) {
		converted, err := sanitizer.MarkdownToHTML(digest)
		if err != nil {
			return nil, &ContentFetchError{Err: err}
		}
		n.r.logger.InfoContext(ctx, "digest had no HTML elements, converted from markdown")
		digest = converted
	}
	if n.r.sanitizeHTML {
		digest = strings.TrimSpace(sanitizer.SanitizeEmailHTML(digest))
	}
	if digest == "" {
		return nil, &ContentFetchError{Err: ErrEmptyDigest}
	}

	problems := sanitizer.ValidateHTML(digest)
	if len(problems) > 0 && n.r.strictHTML {
		return nil, &ContentFetchError{Err: ErrMalformedHTML, Problems: problems}
	}

	return sanitized{html: digest, text: sanitizer.PlainText(digest), problems: problems}, nil
}

func (n *sanitizeNode) Post(ctx context.Context, shared *flyt.SharedStore, _, exec any) (flyt.Action, error) {
	s := exec.(sanitized)
	res := resultFrom(shared)
	res.Digest = s.html
	res.Problems = s.problems
	shared.Set(keyText, s.text)

	for _, p := range s.problems {
		n.r.logger.WarnContext(ctx, "digest HTML problem", slog.String("problem", p.String()))
	}

	if n.r.dryRun {
		return actionDryRun, nil
	}
	return flyt.DefaultAction, nil
}

type dispatchNode struct {
	*flyt.BaseNode
	r *Runner
}

func (n *dispatchNode) Prep(_ context.Context, shared *flyt.SharedStore) (any, error) {
	res := resultFrom(shared)
	text, _ := shared.Get(keyText)
	plain, _ := text.(string)
	return mailer.Message{
		To:             n.r.recipient,
		Subject:        res.Subject,
		HTML:           res.Digest,
		Text:           plain,
		IdempotencyKey: res.IdempotencyKey,
		Tags:           mailer.Tags{"category": "ai-newsletter", "date": res.Date},
	}, nil
}

func (n *dispatchNode) Exec(ctx context.Context, prep any) (any, error) {
	confirmation, err := n.r.dispatcher.Dispatch(ctx, prep.(mailer.Message))
	if err != nil {
		return nil, &DispatchError{Err: err}
	}
	if confirmation == nil {
		return nil, &DispatchError{Err: mailer.ErrNoReceipt}
	}
	return confirmation, nil
}

func (n *dispatchNode) Post(_ context.Context, shared *flyt.SharedStore, _, exec any) (flyt.Action, error) {
	resultFrom(shared).Confirmation = exec.(*mailer.Confirmation)
	return flyt.DefaultAction, nil
}

type markSentNode struct {
	*flyt.BaseNode
	r *Runner
}

func (n *markSentNode) Prep(_ context.Context, shared *flyt.SharedStore) (any, error) {
	return resultFrom(shared).IdempotencyKey, nil
}

// Exec only logs guard failures; the email has already been accepted.
func (n *markSentNode) Exec(ctx context.Context, prep any) (any, error) {
	if n.r.guard == nil {
		return nil, nil
	}
	if err := n.r.guard.MarkSent(ctx, prep.(string)); err != nil {
		n.r.logger.WarnContext(ctx, "failed to record sent newsletter",
			slog.Any("error", err),
		)
	}
	return nil, nil
}
