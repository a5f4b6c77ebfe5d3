package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/openconfig/gnmi/proto/gnmi"
	"github.com/openconfig/gnmi/proto/gnmi_ext"
	"github.com/spf13/pflag"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/iptecharch/cliconf-server/utils"
)

var addr string
var devices []string
var conc int64
var numRequests int
var path string
var noCache bool

func main() {
	pflag.StringVarP(&addr, "address", "a", "localhost:56000", "cliconf server address")
	pflag.StringSliceVarP(&devices, "device", "", []string{"r1"}, "list of devices to query")
	pflag.Int64VarP(&conc, "concurrency", "", 250, "max concurrent get requests")
	pflag.IntVarP(&numRequests, "requests", "", 100, "number of get requests per device")
	pflag.StringVarP(&path, "path", "", "running", "path to query")
	pflag.BoolVarP(&noCache, "no-cache", "", false, "bypass the server config cache")
	pflag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cc, gnmiClient, err := createGNMIClient(ctx, addr)
	if err != nil {
		panic(err)
	}
	defer cc.Close()

	var exts []*gnmi_ext.Extension
	if noCache {
		ext, err := utils.JSONExtension(&utils.RequestOptions{NoCache: true})
		if err != nil {
			panic(err)
		}
		exts = append(exts, ext)
	}
	wg := &sync.WaitGroup{}
	wg.Add(numRequests * len(devices))
	sem := semaphore.NewWeighted(conc)
	now := time.Now()
	for _, device := range devices {
		// loop, concurrent
		for i := 0; i < numRequests; i++ {
			err := sem.Acquire(ctx, 1)
			if err != nil {
				panic(err)
			}
			go func(device string) {
				defer wg.Done()
				defer sem.Release(1)
				req := &gnmi.GetRequest{
					Prefix: utils.TargetPrefix(device),
					Path: []*gnmi.Path{
						utils.Path(strings.Split(path, "/")...),
					},
					Encoding:  gnmi.Encoding_ASCII,
					Extension: exts,
				}
				getRsp, err := gnmiClient.Get(ctx, req)
				if err != nil {
					panic(err)
				}
				_ = getRsp
			}(device)
		}
	}
	wg.Wait()
	fmt.Println("get requests done    :", time.Since(now))
}

func createGNMIClient(ctx context.Context, addr string) (*grpc.ClientConn, gnmi.GNMIClient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	cc, err := grpc.DialContext(ctx, addr,
		grpc.WithBlock(),
		grpc.WithTransportCredentials(
			insecure.NewCredentials(),
		),
	)
	if err != nil {
		return nil, nil, err
	}
	return cc, gnmi.NewGNMIClient(cc), nil
}
