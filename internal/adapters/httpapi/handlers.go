package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vodkeeper/vodkeeper/internal/buildinfo"
	"github.com/vodkeeper/vodkeeper/internal/httpjson"
	"github.com/vodkeeper/vodkeeper/internal/ports"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, buildinfo.Current())
}

type channelStatus struct {
	Login              string `json:"login"`
	ShowName           string `json:"showName"`
	LastVODID          string `json:"lastVodId,omitempty"`
	LastVODPublishedAt string `json:"lastVodPublishedAt,omitempty"`
	LastVideoPath      string `json:"lastVideoPath,omitempty"`
	LastDownloadedAt   string `json:"lastDownloadedAt,omitempty"`
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	out := make([]channelStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		st, err := s.states.Load(ch.StatePath)
		if err != nil {
			httpjson.Error(w, http.StatusInternalServerError, err.Error())
			return
		}

		status := channelStatus{
			Login:     ch.Login,
			ShowName:  ch.Show(),
			LastVODID: st.LastVODID,
		}
		if !st.LastVODPublishedAt.IsZero() {
			status.LastVODPublishedAt = st.LastVODPublishedAt.UTC().Format(time.RFC3339)
		}
		if s.history != nil {
			entry, err := s.history.LatestForChannel(r.Context(), ch.Login)
			if err != nil && !errors.Is(err, ports.ErrNotFound) {
				httpjson.Error(w, http.StatusInternalServerError, err.Error())
				return
			}
			if err == nil {
				status.LastVideoPath = entry.VideoPath
				status.LastDownloadedAt = entry.DownloadedAt.UTC().Format(time.RFC3339)
			}
		}
		out = append(out, status)
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"channels": out})
}

type archiveItem struct {
	ID           string `json:"id"`
	Channel      string `json:"channel"`
	VODID        string `json:"vodId"`
	Title        string `json:"title"`
	PublishedAt  string `json:"publishedAt"`
	VideoPath    string `json:"videoPath"`
	DownloadedAt string `json:"downloadedAt"`
}

func (s *Server) handleArchives(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		httpjson.Write(w, http.StatusOK, map[string]any{"archives": []archiveItem{}})
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := s.history.List(r.Context(), limit)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]archiveItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, archiveItem{
			ID:           e.ID,
			Channel:      e.Channel,
			VODID:        e.VODID,
			Title:        e.Title,
			PublishedAt:  e.PublishedAt.UTC().Format(time.RFC3339),
			VideoPath:    e.VideoPath,
			DownloadedAt: e.DownloadedAt.UTC().Format(time.RFC3339),
		})
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"archives": out})
}
