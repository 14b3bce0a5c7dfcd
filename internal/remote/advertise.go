package remote

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/hashicorp/mdns"

	"github.com/gogpu/paint"
)

// ServiceType is the DNS-SD service type hubs are announced under.
const ServiceType = "_paint._tcp"

// Advertise announces a hub listening on port through multicast DNS, using
// the host name as the instance name. The caller shuts the server down.
func Advertise(port int, info ...string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("remote: hostname: %w", err)
	}
	svc, err := service(host, "", port, nil, info)
	if err != nil {
		return nil, err
	}
	srv, err := mdns.NewServer(&mdns.Config{Zone: svc})
	if err != nil {
		return nil, fmt.Errorf("remote: start mdns server: %w", err)
	}
	paint.Logger().Info("remote: advertising", "instance", host, "service", ServiceType, "port", port)
	return srv, nil
}

// service builds the zone for one hub. An empty hostName and nil ips are
// resolved from the local host.
func service(instance, hostName string, port int, ips []net.IP, info []string) (*mdns.MDNSService, error) {
	svc, err := mdns.NewMDNSService(instance, ServiceType, "", hostName, port, ips, info)
	if err != nil {
		return nil, fmt.Errorf("remote: mdns service: %w", err)
	}
	return svc, nil
}

// Browse looks up hubs on the local network and calls found with the
// host:port of each IPv4 answer. It blocks for the lookup timeout.
func Browse(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port)))
		}
	}()
	err := mdns.Lookup(ServiceType, entries)
	close(entries)
	<-done
	return err
}
