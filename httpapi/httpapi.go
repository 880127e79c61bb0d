// Package httpapi exposes the ID generator as a small JSON over HTTP service.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/d3ce1t/flakeid/api"
	"github.com/d3ce1t/flakeid/idgen"
)

const MaxCount = 4096

// Source hands out IDs and describes the generator behind them.
type Source interface {
	NextIDs(count int) ([]int64, error)
	Generator() *idgen.Generator
	BootID() string
	Uptime() time.Duration
}

type HTTPServer struct {
	source Source
	config api.Config
	server *http.Server
}

func New(source Source, config api.Config) *HTTPServer {
	s := &HTTPServer{source: source, config: config}
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/id", s.handleID)
	mux.HandleFunc("/ids", s.handleIDs)
	mux.HandleFunc("/decode/", s.handleDecode)
	mux.HandleFunc("/info", s.handleInfo)
	return mux
}

// Run listens on the configured port and serves until Shutdown is called.
func (s *HTTPServer) Run() error {

	addr := fmt.Sprintf("%v:%v", s.config.ListenAddress(), s.config.HTTPListenPort())
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Println("HTTP API listening on", listener.Addr())

	err = s.server.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type idResponse struct {
	ID    string `json:"id"`
	IDInt int64  `json:"id_int"`
}

type idsResponse struct {
	IDs    []string `json:"ids"`
	IDsInt []int64  `json:"ids_int"`
}

type decodedResponse struct {
	ID           string `json:"id"`
	Timestamp    int64  `json:"timestamp"`
	Time         string `json:"time"`
	Elapsed      int64  `json:"elapsed"`
	DataCenterID uint8  `json:"data_center_id"`
	MachineID    uint8  `json:"machine_id"`
	Sequence     uint16 `json:"sequence"`
}

type infoResponse struct {
	DataCenterID   int    `json:"data_center_id"`
	MachineID      int    `json:"machine_id"`
	Epoch          int64  `json:"epoch"`
	LastTimestamp  int64  `json:"last_timestamp"`
	Issued         uint64 `json:"issued"`
	SequenceWaits  uint64 `json:"sequence_waits"`
	ClockRollbacks uint64 `json:"clock_rollbacks"`
	BootID         string `json:"boot_id"`
	UptimeMs       int64  `json:"uptime_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *HTTPServer) handleID(w http.ResponseWriter, r *http.Request) {

	if !checkMethod(w, r) {
		return
	}

	ids, err := s.source.NextIDs(1)
	if err != nil {
		writeGeneratorError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, &idResponse{ID: strconv.FormatInt(ids[0], 10), IDInt: ids[0]})
}

func (s *HTTPServer) handleIDs(w http.ResponseWriter, r *http.Request) {

	if !checkMethod(w, r) {
		return
	}

	count := 1
	if value := r.URL.Query().Get("count"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > MaxCount {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("count must be between 1 and %v", MaxCount))
			log.Printf("< (%v) GET IDS ERROR: invalid count %q\n", r.RemoteAddr, value)
			return
		}
		count = n
	}

	ids, err := s.source.NextIDs(count)
	if err != nil {
		writeGeneratorError(w, r, err)
		return
	}

	response := &idsResponse{
		IDs:    make([]string, 0, len(ids)),
		IDsInt: ids,
	}
	for _, id := range ids {
		response.IDs = append(response.IDs, strconv.FormatInt(id, 10))
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *HTTPServer) handleDecode(w http.ResponseWriter, r *http.Request) {

	if !checkMethod(w, r) {
		return
	}

	value := strings.TrimPrefix(r.URL.Path, "/decode/")
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		log.Printf("< (%v) DECODE ERROR: invalid id %q\n", r.RemoteAddr, value)
		return
	}

	d := s.source.Generator().Decode(id)

	writeJSON(w, http.StatusOK, &decodedResponse{
		ID:           strconv.FormatInt(d.ID, 10),
		Timestamp:    d.Timestamp,
		Time:         d.Time().Format(time.RFC3339Nano),
		Elapsed:      d.Elapsed,
		DataCenterID: d.DataCenterID,
		MachineID:    d.MachineID,
		Sequence:     d.Sequence,
	})
}

func (s *HTTPServer) handleInfo(w http.ResponseWriter, r *http.Request) {

	if !checkMethod(w, r) {
		return
	}

	gen := s.source.Generator()
	state := gen.State()
	stats := gen.Stats()

	writeJSON(w, http.StatusOK, &infoResponse{
		DataCenterID:   gen.DataCenterID(),
		MachineID:      gen.MachineID(),
		Epoch:          gen.Epoch(),
		LastTimestamp:  state.LastTimestamp,
		Issued:         stats.Issued,
		SequenceWaits:  stats.SequenceWaits,
		ClockRollbacks: stats.ClockRollbacks,
		BootID:         s.source.BootID(),
		UptimeMs:       int64(s.source.Uptime() / time.Millisecond),
	})
}

func checkMethod(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// A clock rollback is transient, clients should retry later
func writeGeneratorError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("< (%v) %v ERROR: %v\n", r.RemoteAddr, r.URL.Path, err)
	switch {
	case errors.Is(err, idgen.ErrClockMovedBackward):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, api.ErrMaintenanceMode):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("HTTP API write error:", err)
	}
}
