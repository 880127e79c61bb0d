package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/d3ce1t/flakeid/api"
	"github.com/d3ce1t/flakeid/idgen"
	"github.com/d3ce1t/flakeid/monitor"
)

// Longest wait for the clock to pass a restored checkpoint before starting
// anyway. Past this the clock is likely wrong and an operator should look.
const MAX_RESTORE_WAIT = 5 * time.Second

func (s *Server) checkpointInterval() time.Duration {
	return time.Duration(s.Config.CheckpointIntervalMs()) * time.Millisecond
}

/*
  RestoreCheckpoint moves the generator past every ID a previous run with the
  same identity could have handed out. Checkpoints are saved periodically, so
  the previous run may have kept generating for up to one interval after the
  stored timestamp: that horizon is what gets restored.
*/
func (s *Server) RestoreCheckpoint(ctx context.Context) error {

	gen := s.generator

	stored, err := s.stateDAO.Load(gen.DataCenterID(), gen.MachineID())
	if err == api.ErrNotFound {
		log.Println("No checkpoint found for this identity")
		return nil
	} else if err != nil {
		return err
	}

	horizon := stored.LastTimestamp + int64(s.Config.CheckpointIntervalMs())
	log.Printf("Found checkpoint %v saved by %v, restoring up to %v\n",
		stored.LastTimestamp, stored.BootID, horizon)

	if err := gen.Restore(idgen.State{LastTimestamp: horizon}); err != nil {
		return err
	}

	now := gen.Now()
	if now >= horizon {
		return nil
	}

	wait := time.Duration(horizon-now) * time.Millisecond

	if wait > MAX_RESTORE_WAIT {
		s.monitor.Raise(monitor.AlertClockBehindCheckpoint,
			"clock is %v behind the last checkpoint, ids will fail until it catches up", wait)
		return nil
	}

	log.Printf("Clock is behind the last checkpoint, waiting %v\n", wait)

	select {
	case <-time.After(wait):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

/*
  SaveCheckpoint stores the generator state if IDs were generated since the
  last save. A restored horizon alone is never stored: a run that generates
  nothing leaves the checkpoint as it found it.
*/
func (s *Server) SaveCheckpoint() error {

	issued := s.generator.Stats().Issued
	state := s.generator.State()

	s.mu.Lock()
	unchanged := issued == s.savedIssued || state.LastTimestamp <= s.lastSaved
	s.mu.Unlock()

	if state.LastTimestamp < 0 || unchanged {
		return nil
	}

	dto := &api.GeneratorStateDTO{
		DataCenterID:  s.generator.DataCenterID(),
		MachineID:     s.generator.MachineID(),
		LastTimestamp: state.LastTimestamp,
		BootID:        s.bootID,
	}

	err := s.stateDAO.Save(dto)

	if errors.Is(err, api.ErrStaleState) {
		s.monitor.Raise(monitor.AlertStaleCheckpoint,
			"a newer checkpoint exists for dc %v machine %v, is another node using this identity?",
			dto.DataCenterID, dto.MachineID)
		return err
	} else if err != nil {
		s.monitor.Raise(monitor.AlertCheckpointFailed, "checkpoint save failed: %v", err)
		return err
	}

	s.mu.Lock()
	s.lastSaved = state.LastTimestamp
	s.savedIssued = issued
	s.mu.Unlock()

	return nil
}

// Checkpoints lists the stored state of every identity in the cluster.
func (s *Server) Checkpoints() ([]*api.GeneratorStateDTO, error) {
	return s.stateDAO.LoadAll()
}

// RetireIdentity deletes the checkpoint of an identity taken out of service,
// so it can be handed to a new machine without inheriting a stale horizon.
func (s *Server) RetireIdentity(dataCenterID int, machineID int) error {

	if dataCenterID == s.generator.DataCenterID() && machineID == s.generator.MachineID() {
		return ErrActiveIdentity
	}

	if err := s.stateDAO.Delete(dataCenterID, machineID); err != nil {
		return err
	}

	log.Printf("Checkpoint of dc %v machine %v deleted\n", dataCenterID, machineID)
	return nil
}

// RunCheckpointer saves the state every checkpoint interval and once more
// when ctx is done.
func (s *Server) RunCheckpointer(ctx context.Context) {

	ticker := time.NewTicker(s.checkpointInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.SaveCheckpoint(); err != nil {
				log.Println("Checkpoint Error:", err)
			}
		case <-ctx.Done():
			if err := s.SaveCheckpoint(); err != nil {
				log.Println("Final Checkpoint Error:", err)
			} else {
				log.Println("Final checkpoint saved")
			}
			return
		}
	}
}

// watchAlerts logs every alert raised until ctx is done.
func (s *Server) watchAlerts(ctx context.Context) {

	stream := s.monitor.Observe()

	for {
		select {
		case <-stream.Changes():
			stream.Next()
			if alert, ok := stream.Value().(*monitor.Alert); ok {
				log.Println("ALERT", alert)
			}
		case <-ctx.Done():
			return
		}
	}
}
