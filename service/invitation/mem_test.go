package invitation

import "testing"

func prepareMem(t *testing.T) (Service, *Mem) {
	s := MemService()

	return s, s
}

func TestMemAccept(t *testing.T) {
	testServiceAccept(t, prepareMem)
}

func TestMemCreate(t *testing.T) {
	testServiceCreate(t, prepareMem)
}

func TestMemCreateAlreadyMember(t *testing.T) {
	testServiceCreateAlreadyMember(t, prepareMem)
}

func TestMemCreateBulkPartial(t *testing.T) {
	testServiceCreateBulkPartial(t, prepareMem)
}

func TestMemCodes(t *testing.T) {
	testServiceCodes(t, prepareMem)
}

func TestMemDecline(t *testing.T) {
	testServiceDecline(t, prepareMem)
}

func TestMemPending(t *testing.T) {
	testServicePending(t, prepareMem)
}

func TestMemResend(t *testing.T) {
	testServiceResend(t, prepareMem)
}

func TestMemRevoke(t *testing.T) {
	testServiceRevoke(t, prepareMem)
}

func TestMemSpace(t *testing.T) {
	testServiceSpace(t, prepareMem)
}

func TestMemStats(t *testing.T) {
	testServiceStats(t, prepareMem)
}
