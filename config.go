package electclient

import (
	"log"
	"os"
	"strconv"

	lbcf "github.com/lidstromberg/config"

	"golang.org/x/net/context"
)

var (
	//EnvDebugOn controls verbose logging
	EnvDebugOn bool
)

const (
	//ConstAnonymousID is the national id of the unauthenticated sentinel identity
	ConstAnonymousID = "-1"
	//ConstAnonymousName is the display name of the unauthenticated sentinel identity
	ConstAnonymousName = "Anonymous"
	//ConstAuthHeader is the header carrying the bearer credential
	ConstAuthHeader = "Authorization"
	//ConstBearerPrefix is the bearer credential scheme prefix
	ConstBearerPrefix = "Bearer "
	//ConstJwtExp expiry element of a jwt claim set
	ConstJwtExp = "exp"
)

//preflight config checks
func preflight(ctx context.Context, bc lbcf.ConfigSetting) {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.LUTC)
	log.Println("Started ElectClient preflight..")

	//get the electclient config and apply it to the config
	bc.LoadConfigMap(ctx, preflightConfigLoader())

	//then check that we have everything we need
	if bc.GetConfigValue(ctx, "EnvDebugOn") == "" {
		log.Fatal("Could not parse environment variable EnvDebugOn")
	}

	if bc.GetConfigValue(ctx, "EnvElectBaseURL") == "" {
		log.Fatal("Could not parse environment variable EnvElectBaseURL")
	}

	if bc.GetConfigValue(ctx, "EnvElectSessFile") == "" {
		log.Fatal("Could not parse environment variable EnvElectSessFile")
	}

	if bc.GetConfigValue(ctx, "EnvElectTimeoutSec") == "" {
		log.Fatal("Could not parse environment variable EnvElectTimeoutSec")
	}

	//set the debug value
	constlog, err := strconv.ParseBool(bc.GetConfigValue(ctx, "EnvDebugOn"))

	if err != nil {
		log.Fatal("Could not parse environment variable EnvDebugOn")
	}

	EnvDebugOn = constlog

	log.Println("..Finished ElectClient preflight.")
}

//preflightConfigLoader loads the electclient config vars
func preflightConfigLoader() map[string]string {
	cfm := make(map[string]string)

	//EnvDebugOn is the debug setting
	cfm["EnvDebugOn"] = os.Getenv("LB_DEBUGON")
	//EnvElectBaseURL is the base url of the election service
	cfm["EnvElectBaseURL"] = os.Getenv("ELECT_BASEURL")
	//EnvElectSessFile is the path of the durable session mirror
	cfm["EnvElectSessFile"] = os.Getenv("ELECT_SESSFILE")
	//EnvElectTimeoutSec is the request timeout in seconds for election service calls
	cfm["EnvElectTimeoutSec"] = os.Getenv("ELECT_TIMEOUTSEC")

	if cfm["EnvDebugOn"] == "" {
		log.Fatal("Could not parse environment variable EnvDebugOn")
	}

	if cfm["EnvElectBaseURL"] == "" {
		log.Fatal("Could not parse environment variable EnvElectBaseURL")
	}

	if cfm["EnvElectSessFile"] == "" {
		log.Fatal("Could not parse environment variable EnvElectSessFile")
	}

	if cfm["EnvElectTimeoutSec"] == "" {
		log.Fatal("Could not parse environment variable EnvElectTimeoutSec")
	}

	return cfm
}
