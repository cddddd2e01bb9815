package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/d0ngw/counters/api"
	c "github.com/d0ngw/counters/common"
)

var (
	confDir = flag.String("conf", "conf", "The directory of the config files")
	env     = flag.String("env", "dev", "The environment, loads common.yaml and conf_<env>.yaml if exists")
	addr    = flag.String("addr", "", "If set, overrides http.addr of the config")
)

// configFiles 先加载common.yaml,再加载conf_<env>.yaml覆盖共同的配置
func configFiles(dir, env string) ([]string, error) {
	files := []string{}
	for _, name := range []string{"common.yaml", "conf_" + env + ".yaml"} {
		exist, err := c.FileLoader.Exist(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if exist {
			files = append(files, name)
		} else if name == "common.yaml" {
			c.Debugf("optional config %s does not exist,skip", name)
		} else {
			c.Warnf("config %s does not exist,skip", name)
		}
	}
	return files, nil
}

func loadConfig(dir, env, addr string) (*api.Config, error) {
	files, err := configFiles(dir, env)
	if err != nil {
		return nil, err
	}

	// 保证至少有一个配置文档
	addon := "http:\n  addr: \":8080\"\n"
	conf := &api.Config{}
	if err := c.LoadConfig(conf, addon, dir, files...); err != nil {
		return nil, err
	}
	if err := conf.Parse(); err != nil {
		return nil, err
	}
	if addr != "" {
		conf.HTTP.Addr = addr
	}
	return conf, nil
}

func main() {
	flag.Parse()

	if workDir := os.Getenv(c.EnvWorkfDir); workDir != "" {
		if err := os.Chdir(workDir); err != nil {
			fmt.Fprintf(os.Stderr, "can't change work dir to %s:%v\n", workDir, err)
			os.Exit(1)
		}
	}

	conf, err := loadConfig(*confDir, *env, *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config fail:%v\n", err)
		os.Exit(1)
	}

	server, err := api.NewServer(conf)
	if err != nil {
		c.Errorf("create server fail,err:%v", err)
		os.Exit(1)
	}

	hook := c.NewShutdownhook()
	hook.AddHook(server.Stop)
	hook.AddHook(c.SyncLog)

	if err := server.Start(); err != nil {
		c.Errorf("start server fail,err:%v", err)
		c.SyncLog()
		os.Exit(1)
	}
	c.Infof("counterd started,env:%s", *env)
	hook.WaitShutdown()
}
