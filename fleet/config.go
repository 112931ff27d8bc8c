package fleet

import (
	"bufio"
	"fmt"
	"github.com/bundlectl/bundlectl/console"
	ini "github.com/vaughan0/go-ini"
	"os"
	"strings"
)

// LoadFleetFile reads an ini fleet description, one section per server, and
// returns the servers in file order. Section keys are server properties as
// understood by ServerConfig.SetProperty, legacy aliases included.
func LoadFleetFile(path string) ([]*console.ServerConfig, error) {
	file, err := ini.LoadFile(path)
	if err != nil {
		return nil, err
	}
	order, err := sectionOrder(path)
	if err != nil {
		return nil, err
	}
	servers := make([]*console.ServerConfig, 0, len(order))
	for _, name := range order {
		cfg := console.NewServerConfig(name)
		for key, value := range file[name] {
			if err := cfg.SetProperty(key, value); err != nil {
				return nil, fmt.Errorf("fleet: server %s in %s: %s", name, path, err)
			}
		}
		servers = append(servers, cfg)
	}
	return servers, nil
}

// sectionOrder recovers the file order of the ini sections, which the parsed
// map representation loses. The fleet's iteration order is the file order.
func sectionOrder(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var order []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			order = append(order, strings.TrimSpace(line[1:len(line)-1]))
		}
	}
	return order, scanner.Err()
}
