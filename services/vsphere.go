// ABOUTME: vSphere client for inventory discovery via govmomi
// ABOUTME: Lists VMs and maps them onto server-visibility-only license assets

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
	"github.com/vmware/govmomi/object"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/ulix1808/AppdyLicCalc/models"
)

// VSphereCredentials holds vCenter connection info
type VSphereCredentials struct {
	Host       string
	Username   string
	Password   string
	Datacenter string
	Insecure   bool
}

// VSphereClient wraps govmomi client for inventory discovery
type VSphereClient struct {
	creds      VSphereCredentials
	client     *govmomi.Client
	finder     *find.Finder
	datacenter *object.Datacenter
}

// NewVSphereClient creates a new vSphere client
func NewVSphereClient(creds VSphereCredentials) *VSphereClient {
	return &VSphereClient{
		creds: creds,
	}
}

// Connect establishes connection to vCenter
func (v *VSphereClient) Connect(ctx context.Context) error {
	host := v.creds.Host
	if !strings.HasPrefix(host, "https://") && !strings.HasPrefix(host, "http://") {
		host = "https://" + host
	}

	u, err := url.Parse(host + "/sdk")
	if err != nil {
		return fmt.Errorf("invalid vCenter URL '%s': %w", sanitizeForLog(v.creds.Host), err)
	}
	u.User = url.UserPassword(v.creds.Username, v.creds.Password)

	client, err := govmomi.NewClient(ctx, u, v.creds.Insecure)
	if err != nil {
		return describeConnectError(v.creds.Host, err)
	}

	v.client = client
	v.finder = find.NewFinder(client.Client, true)

	dc, err := v.finder.Datacenter(ctx, v.creds.Datacenter)
	if err != nil {
		var notFound *find.NotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("datacenter '%s' not found - verify the datacenter name", sanitizeForLog(v.creds.Datacenter))
		}
		return fmt.Errorf("error accessing datacenter '%s': %w", sanitizeForLog(v.creds.Datacenter), err)
	}
	v.datacenter = dc
	v.finder.SetDatacenter(dc)

	slog.Info("vSphere connected successfully")
	slog.Debug("vSphere connection details", "host", v.creds.Host, "datacenter", v.creds.Datacenter)
	return nil
}

// describeConnectError turns transport failures into actionable messages.
func describeConnectError(host string, err error) error {
	host = sanitizeForLog(host)
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "connection refused"):
		return fmt.Errorf("connection refused to vCenter at %s - verify the host is reachable", host)
	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf("cannot resolve vCenter hostname '%s' - verify DNS", host)
	case strings.Contains(errStr, "401") || strings.Contains(errStr, "Cannot complete login"):
		return fmt.Errorf("authentication failed - verify username and password")
	case strings.Contains(errStr, "context deadline exceeded") || strings.Contains(errStr, "timeout"):
		return fmt.Errorf("connection timeout to vCenter at %s - check network connectivity", host)
	case strings.Contains(errStr, "certificate") || strings.Contains(errStr, "x509"):
		return fmt.Errorf("SSL certificate error connecting to %s - try setting VSPHERE_INSECURE=true", host)
	default:
		return fmt.Errorf("failed to connect to vCenter at %s: %w", host, err)
	}
}

// Disconnect closes the vCenter connection
func (v *VSphereClient) Disconnect(ctx context.Context) error {
	if v.client != nil {
		return v.client.Logout(ctx)
	}
	return nil
}

// IsConnected returns true if client has an active connection
func (v *VSphereClient) IsConnected() bool {
	return v.client != nil && v.client.Valid()
}

// Datacenter returns the configured datacenter name
func (v *VSphereClient) Datacenter() string {
	return v.creds.Datacenter
}

// VMInfo holds virtual machine data
type VMInfo struct {
	Name       string `json:"name"`
	NumCPU     int32  `json:"num_cpu"`
	MemoryMB   int32  `json:"memory_mb"`
	PowerState string `json:"power_state"`
	GuestOS    string `json:"guest_os"`
	Host       string `json:"host"`
}

// PoweredOn reports whether the VM is running
func (vm VMInfo) PoweredOn() bool {
	return vm.PowerState == string(types.VirtualMachinePowerStatePoweredOn)
}

// ListVMs returns the VMs whose inventory path matches pattern ("*" for all).
// No match is an empty list, not an error.
func (v *VSphereClient) ListVMs(ctx context.Context, pattern string) ([]VMInfo, error) {
	if v.finder == nil {
		return nil, fmt.Errorf("vSphere client not connected")
	}
	if pattern == "" {
		pattern = "*"
	}

	vms, err := v.finder.VirtualMachineList(ctx, pattern)
	if err != nil {
		var notFound *find.NotFoundError
		if errors.As(err, &notFound) {
			return []VMInfo{}, nil
		}
		return nil, fmt.Errorf("listing VMs: %w", err)
	}

	result := make([]VMInfo, 0, len(vms))
	for _, vm := range vms {
		info, err := v.getVMInfo(ctx, vm)
		if err != nil {
			slog.Debug("Skipping unreadable VM", "vm", vm.Name(), "error", err)
			continue
		}
		result = append(result, info)
	}
	return result, nil
}

// getVMInfo retrieves VM configuration
func (v *VSphereClient) getVMInfo(ctx context.Context, vm *object.VirtualMachine) (VMInfo, error) {
	var vmMo mo.VirtualMachine
	err := vm.Properties(ctx, vm.Reference(), []string{"config", "runtime", "summary"}, &vmMo)
	if err != nil {
		return VMInfo{}, err
	}

	info := VMInfo{
		Name:       vm.Name(),
		PowerState: string(vmMo.Runtime.PowerState),
		GuestOS:    vmMo.Summary.Config.GuestFullName,
	}

	if vmMo.Config != nil {
		info.MemoryMB = vmMo.Config.Hardware.MemoryMB
		info.NumCPU = vmMo.Config.Hardware.NumCPU
		if info.GuestOS == "" {
			info.GuestOS = vmMo.Config.GuestFullName
		}
	}

	if vmMo.Runtime.Host != nil {
		var hostMo mo.HostSystem
		host := object.NewHostSystem(v.client.Client, *vmMo.Runtime.Host)
		if err := host.Properties(ctx, host.Reference(), []string{"name"}, &hostMo); err == nil {
			info.Host = hostMo.Name
		}
	}

	return info, nil
}

// DiscoverServers lists matching VMs and converts the running ones into
// server-visibility-only assets.
func (v *VSphereClient) DiscoverServers(ctx context.Context, pattern string) ([]models.ServerVisibilityOnly, error) {
	vms, err := v.ListVMs(ctx, pattern)
	if err != nil {
		return nil, err
	}

	servers := VMsToServers(vms)
	slog.Info("vSphere inventory discovery complete", "vms", len(vms), "servers", len(servers))
	return servers, nil
}

// VMsToServers maps running VMs to one-node assets sized by their vCPUs,
// sorted by name. A VM reporting no vCPUs gets the default core count.
func VMsToServers(vms []VMInfo) []models.ServerVisibilityOnly {
	servers := make([]models.ServerVisibilityOnly, 0, len(vms))
	for _, vm := range vms {
		if !vm.PoweredOn() {
			continue
		}
		cores := int(vm.NumCPU)
		if cores < 1 {
			cores = models.DefaultCoresPerNode
		}
		servers = append(servers, models.ServerVisibilityOnly{
			Name:         vm.Name,
			Nodes:        1,
			CoresPerNode: cores,
			OS:           vm.GuestOS,
		})
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].Name < servers[j].Name })
	return servers
}

// VSphereClientFromEnv creates a client from environment variables
func VSphereClientFromEnv(host, user, pass, datacenter string, insecure bool) *VSphereClient {
	return NewVSphereClient(VSphereCredentials{
		Host:       host,
		Username:   user,
		Password:   pass,
		Datacenter: datacenter,
		Insecure:   insecure,
	})
}
