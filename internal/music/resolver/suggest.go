package resolver

import (
	"context"
	"sync"

	"github.com/raitonoberu/ytmusic"
)

// Suggestion is one autocomplete candidate for a partially typed query.
type Suggestion struct {
	Title string
	URL   string
}

// Suggest searches the music catalog and plain video search concurrently
// and merges the results, music hits first. Best effort: backend failures
// just shrink the list. The context bounds how long either search may run.
func (r *Resolver) Suggest(ctx context.Context, query string, limit int) []Suggestion {
	if query == "" || limit <= 0 {
		return nil
	}

	var (
		mu          sync.Mutex
		music, vids []Suggestion
		seen        = make(map[string]bool)
		wg          sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		s := ytmusic.TrackSearch(query)
		res, err := s.Next()
		if err != nil {
			return
		}
		for _, t := range res.Tracks {
			if t.VideoID == "" {
				continue
			}
			title := t.Title
			if len(t.Artists) > 0 {
				title = t.Artists[0].Name + " - " + title
			}
			mu.Lock()
			if !seen[t.VideoID] {
				seen[t.VideoID] = true
				music = append(music, Suggestion{Title: title, URL: watchURLPrefix + t.VideoID})
			}
			mu.Unlock()
		}
	}()
	go func() {
		defer wg.Done()
		hits, err := r.search.Search(ctx, query)
		if err != nil {
			return
		}
		for _, v := range hits {
			if v.VideoID == "" {
				continue
			}
			mu.Lock()
			if !seen[v.VideoID] {
				seen[v.VideoID] = true
				vids = append(vids, Suggestion{Title: v.Title, URL: watchURLPrefix + v.VideoID})
			}
			mu.Unlock()
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	mu.Lock()
	defer mu.Unlock()
	merged := append(music, vids...)
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
