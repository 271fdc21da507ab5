// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

// ReleaseWindow is how long, in seconds, owner activity keeps the will
// locked.
const ReleaseWindow int64 = 5 * 60

// CheckReleased passes only once [now] is strictly past the deadline.
func CheckReleased(r *WillRecord, now int64) error {
	if r.ReleaseDeadline < now {
		return nil
	}
	return &NotReleasedError{Deadline: r.ReleaseDeadline, Now: now}
}

func nextDeadline(now int64) int64 {
	return now + ReleaseWindow
}
