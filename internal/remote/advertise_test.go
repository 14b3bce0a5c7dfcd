package remote

import (
	"net"
	"testing"
)

func TestService(t *testing.T) {
	ips := []net.IP{net.IPv4(127, 0, 0, 1)}
	svc, err := service("studio", "paint-test.", 8080, ips, []string{"version=1"})
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	if svc.Instance != "studio" || svc.Service != ServiceType || svc.Port != 8080 {
		t.Errorf("service = %s %s %d", svc.Instance, svc.Service, svc.Port)
	}
	if len(svc.TXT) != 1 || svc.TXT[0] != "version=1" {
		t.Errorf("TXT = %v", svc.TXT)
	}
}

func TestServiceNeedsPort(t *testing.T) {
	ips := []net.IP{net.IPv4(127, 0, 0, 1)}
	if _, err := service("studio", "paint-test.", 0, ips, nil); err == nil {
		t.Error("service without port accepted")
	}
}
