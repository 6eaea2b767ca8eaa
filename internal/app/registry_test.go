package app

import (
	"testing"

	"github.com/dkeye/Consult/internal/core"
	"github.com/dkeye/Consult/internal/domain"
)

type nopConn struct{ closed bool }

func (c *nopConn) TrySend(core.Frame) error { return nil }
func (c *nopConn) Close()                   { c.closed = true }

func TestRegistryBindLookupUnbind(t *testing.T) {
	r := NewRegistry()
	client := &Binding{SessionID: "s1", Role: domain.RoleClient, ConnID: "c1", Conn: &nopConn{}}
	pro := &Binding{SessionID: "s1", Role: domain.RoleProfessional, ConnID: "p1", Conn: &nopConn{}}

	if old := r.Bind(client); old != nil {
		t.Fatalf("first Bind returned %+v", old)
	}
	r.Bind(pro)
	if r.Count("s1") != 2 {
		t.Fatalf("Count = %d, want 2", r.Count("s1"))
	}
	if got, ok := r.Lookup("s1", domain.RoleProfessional); !ok || got != pro {
		t.Fatalf("Lookup professional = %v, %v", got, ok)
	}

	if !r.Unbind("s1", domain.RoleClient, "c1") {
		t.Fatalf("Unbind client failed")
	}
	if r.Unbind("s1", domain.RoleClient, "c1") {
		t.Fatalf("second Unbind reported success")
	}
	r.Unbind("s1", domain.RoleProfessional, "p1")
	if r.Count("s1") != 0 {
		t.Fatalf("Count = %d, want 0", r.Count("s1"))
	}
}

func TestRegistrySupersede(t *testing.T) {
	r := NewRegistry()
	first := &Binding{SessionID: "s1", Role: domain.RoleClient, ConnID: "c1", Conn: &nopConn{}}
	second := &Binding{SessionID: "s1", Role: domain.RoleClient, ConnID: "c2", Conn: &nopConn{}}
	r.Bind(first)
	if old := r.Bind(second); old != first {
		t.Fatalf("Bind returned %v, want first binding", old)
	}
	if r.Unbind("s1", domain.RoleClient, "c1") {
		t.Fatalf("superseded connection unbound its replacement")
	}
	if got, _ := r.Lookup("s1", domain.RoleClient); got != second {
		t.Fatalf("Lookup = %v, want replacement", got)
	}
}

func TestRegistryCancel(t *testing.T) {
	r := NewRegistry()
	conn := &nopConn{}
	canceled := false
	r.Cancel(&Binding{SessionID: "s1", ConnID: "c1", Conn: conn, Cancel: func() { canceled = true }})
	if !canceled || !conn.closed {
		t.Fatalf("Cancel: canceled=%v closed=%v", canceled, conn.closed)
	}
}
