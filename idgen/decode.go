package idgen

import (
	"fmt"
	"time"
)

// DecodedID holds the fields packed into an ID.
type DecodedID struct {
	ID           int64
	Elapsed      int64 // Milliseconds since the generator epoch
	Timestamp    int64 // Milliseconds since the Unix epoch
	DataCenterID uint8
	MachineID    uint8
	Sequence     uint16
}

// Decode unpacks an ID minted with the default epoch.
func Decode(id int64) DecodedID {
	return decode(id, Epoch)
}

// DecodeWithEpoch unpacks an ID minted with a custom epoch.
func DecodeWithEpoch(id int64, epoch int64) DecodedID {
	return decode(id, epoch)
}

func decode(id int64, epoch int64) DecodedID {
	elapsed := (id >> TimestampShift) & MaxTimestamp
	return DecodedID{
		ID:           id,
		Elapsed:      elapsed,
		Timestamp:    elapsed + epoch,
		DataCenterID: uint8((id >> DataCenterIDShift) & MaxDataCenterID),
		MachineID:    uint8((id >> MachineIDShift) & MaxMachineID),
		Sequence:     uint16(id & MaxSequence),
	}
}

func (d DecodedID) Time() time.Time {
	return time.Unix(0, d.Timestamp*int64(time.Millisecond)).UTC()
}

func (d DecodedID) String() string {
	return fmt.Sprintf("id: %v time: %v dc: %v machine: %v seq: %v",
		d.ID, d.Time().Format("2006-01-02T15:04:05.000Z07:00"), d.DataCenterID, d.MachineID, d.Sequence)
}
