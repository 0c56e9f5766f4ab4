// Package testutil starts the external services the store and end-to-end
// tests run against. Everything here is driven by environment variables
// (usually loaded from a .env file) so the same helpers serve go test and
// the standalone cmd/testcontainers executable.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/localnerve/jam-build-shoplist/data"
	"github.com/localnerve/jam-build-shoplist/internal/config"
	"github.com/localnerve/jam-build-shoplist/internal/identity"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Credentials used by the single-database helpers
const (
	testRootPassword = "shoplist-root"
	testDatabase     = "shoplist"
	testUser         = "shoplist"
	testPassword     = "shoplist-secret"
)

// ServiceImage is the tag the service image is built and reused under
const ServiceImage = "shoplist-test:latest"

// Containers tracks everything CreateAllTestContainers started
type Containers struct {
	Network                 *testcontainers.DockerNetwork
	DBContainer             testcontainers.Container
	AuthorizerContainer     testcontainers.Container
	ServiceContainer        testcontainers.Container
	ServiceBuilderContainer testcontainers.Container

	// Host reachable URLs
	AuthzURL string
	BaseURL  string
}

// Terminate stops the containers in reverse start order. t may be nil.
func (tc *Containers) Terminate(t *testing.T) {
	ctx := context.Background()
	stop := func(name string, c testcontainers.Container) {
		if c == nil {
			return
		}
		if err := c.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate %s: %v", name, err)
		}
	}
	stop("shoplist", tc.ServiceContainer)
	stop("shoplist builder", tc.ServiceBuilderContainer)
	stop("Authorizer", tc.AuthorizerContainer)
	stop("database", tc.DBContainer)
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// StartSQLDatabase starts the DB_TYPE database from DB_IMAGE and returns a
// configuration pointing the sql store at it. The test is skipped in -short
// mode or when DB_IMAGE is unset.
func StartSQLDatabase(t *testing.T) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}
	dbImage := os.Getenv("DB_IMAGE")
	if dbImage == "" {
		t.Skip("DB_IMAGE not set")
	}
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "mariadb"
	}

	ctx := context.Background()
	portNumber := "3306"
	if dbType == "postgres" {
		portNumber = "5432"
	}
	tcpPort, err := nat.NewPort("tcp", portNumber)
	if err != nil {
		t.Fatalf("Failed to create DB port: %v", err)
	}

	var waitFor wait.Strategy = wait.ForListeningPort(tcpPort).WithStartupTimeout(60 * time.Second)
	if dbType == "postgres" {
		waitFor = wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(tcpPort),
		).WithDeadline(60 * time.Second)
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage,
			ExposedPorts: []string{string(tcpPort)},
			Env:          dbInitEnv(dbType, testRootPassword, testDatabase, testUser, testPassword),
			WaitingFor:   waitFor,
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start %s: %v", dbType, err)
	}
	t.Cleanup(func() {
		if err := dbContainer.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate %s: %v", dbType, err)
		}
	})

	host, _ := dbContainer.Host(ctx)
	mapped, _ := dbContainer.MappedPort(ctx, tcpPort)

	if dbType == "mariadb" || dbType == "mysql" {
		if err := initMySQL(host, mapped.Port(), testRootPassword, testDatabase, testUser); err != nil {
			t.Fatalf("Failed to initialize %s: %v", dbType, err)
		}
	}

	return &config.Config{
		StoreType:         config.StoreSQL,
		DBType:            dbType,
		DBHost:            host,
		DBPort:            mapped.Port(),
		DBDatabase:        testDatabase,
		DBUser:            testUser,
		DBPassword:        testPassword,
		DBConnectionLimit: 5,
		DBLogLevel:        "silent",
		DBAutoMigrate:     true,
		IdentityHeader:    identity.DefaultHeader,
	}
}

// StartMongo starts MONGO_IMAGE and returns a configuration pointing the
// mongo store at a fresh database. The test is skipped in -short mode or
// when MONGO_IMAGE is unset.
func StartMongo(t *testing.T) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container test in short mode")
	}
	mongoImage := os.Getenv("MONGO_IMAGE")
	if mongoImage == "" {
		t.Skip("MONGO_IMAGE not set")
	}

	ctx := context.Background()
	tcpPort, _ := nat.NewPort("tcp", "27017")
	mongoContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mongoImage,
			ExposedPorts: []string{string(tcpPort)},
			WaitingFor: wait.ForAll(
				wait.ForLog("Waiting for connections"),
				wait.ForListeningPort(tcpPort),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start mongodb: %v", err)
	}
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate mongodb: %v", err)
		}
	})

	host, _ := mongoContainer.Host(ctx)
	mapped, _ := mongoContainer.MappedPort(ctx, tcpPort)

	return &config.Config{
		StoreType:      config.StoreMongo,
		MongoURI:       fmt.Sprintf("mongodb://%s:%s", host, mapped.Port()),
		MongoDatabase:  "shoplist_" + strings.ReplaceAll(uuid.NewString()[:8], "-", ""),
		IdentityHeader: identity.DefaultHeader,
	}
}

// CreateAllTestContainers starts a network with the database, an Authorizer
// and the service image built from the repository Dockerfile. t may be nil,
// in which case failures exit the process.
func CreateAllTestContainers(t *testing.T) (*Containers, error) {
	ctx := context.Background()
	tc := &Containers{}

	nw, err := network.New(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to create network")
	}
	tc.Network = nw
	networkName := nw.Name

	// Database
	dbType := os.Getenv("DB_TYPE")
	dbAlias := os.Getenv("DB_HOST")
	tcpDBPort, err := nat.NewPort("tcp", os.Getenv("DB_PORT"))
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to create DB port")
	}
	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("DB_IMAGE"),
			ExposedPorts: []string{string(tcpDBPort)},
			Env: dbInitEnv(dbType,
				os.Getenv("DB_ROOT_PASSWORD"),
				os.Getenv("DB_DATABASE"),
				os.Getenv("DB_USER"),
				os.Getenv("DB_PASSWORD"),
			),
			WaitingFor: wait.ForListeningPort(tcpDBPort).WithStartupTimeout(60 * time.Second),
			Networks:   []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {dbAlias},
			},
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to start database")
	}
	tc.DBContainer = dbContainer

	dbHost, _ := dbContainer.Host(ctx)
	dbPort, _ := dbContainer.MappedPort(ctx, tcpDBPort)
	if dbType == "mariadb" || dbType == "mysql" {
		err := initMySQL(dbHost, dbPort.Port(), os.Getenv("DB_ROOT_PASSWORD"), os.Getenv("DB_DATABASE"), os.Getenv("DB_USER"))
		if err == nil {
			err = createDatabase(dbHost, dbPort.Port(), os.Getenv("DB_ROOT_PASSWORD"), os.Getenv("AUTHZ_DATABASE"))
		}
		if err != nil {
			tc.Terminate(t)
			exitWithError(t, err, "Failed to initialize databases")
		}
	}

	// Authorizer
	authzAlias := "authorizer"
	tcpAuthzPort, err := nat.NewPort("tcp", os.Getenv("AUTHZ_PORT"))
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to create Authorizer port")
	}
	authzLogLevel := "info"
	if os.Getenv("DEBUG_CONTAINER") == "true" {
		authzLogLevel = "debug"
	}
	authzDBURL := fmt.Sprintf("root:%s@tcp(%s:%s)/%s",
		os.Getenv("DB_ROOT_PASSWORD"), dbAlias, os.Getenv("DB_PORT"), os.Getenv("AUTHZ_DATABASE"))
	authorizerContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("AUTHZ_IMAGE"),
			ExposedPorts: []string{string(tcpAuthzPort)},
			Env: map[string]string{
				"ENV":           "production",
				"CLIENT_ID":     os.Getenv("AUTHZ_CLIENT_ID"),
				"PORT":          os.Getenv("AUTHZ_PORT"),
				"DATABASE_TYPE": dbType,
				"DATABASE_NAME": os.Getenv("AUTHZ_DATABASE"),
				"DATABASE_URL":  authzDBURL,
				"ADMIN_SECRET":  os.Getenv("AUTHZ_ADMIN_SECRET"),
				"ROLES":         "admin,user",
				"DEFAULT_ROLES": "user",
				"LOG_LEVEL":     authzLogLevel,
			},
			WaitingFor: wait.ForLog("Authorizer running at PORT:").WithStartupTimeout(30 * time.Second),
			Networks:   []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {authzAlias},
			},
		},
		Started: true,
	})
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to start Authorizer")
	}
	tc.AuthorizerContainer = authorizerContainer

	authzHost, _ := authorizerContainer.Host(ctx)
	authzPort, _ := authorizerContainer.MappedPort(ctx, tcpAuthzPort)
	tc.AuthzURL = fmt.Sprintf("http://%s:%s", authzHost, authzPort.Port())
	logMessage(t, "AUTHZ_URL=%s", tc.AuthzURL)

	// Service
	servicePortNumber := os.Getenv("PORT")
	tcpServicePort, err := nat.NewPort("tcp", servicePortNumber)
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to create service port")
	}
	serviceRequest := testcontainers.ContainerRequest{
		ExposedPorts: []string{string(tcpServicePort)},
		Env: map[string]string{
			"STORE_TYPE":          config.StoreSQL,
			"DB_TYPE":             dbType,
			"DB_HOST":             dbAlias,
			"DB_PORT":             os.Getenv("DB_PORT"),
			"DB_DATABASE":         os.Getenv("DB_DATABASE"),
			"DB_USER":             os.Getenv("DB_USER"),
			"DB_PASSWORD":         os.Getenv("DB_PASSWORD"),
			"DB_CONNECTION_LIMIT": os.Getenv("DB_CONNECTION_LIMIT"),
			"AUTHZ_URL":           fmt.Sprintf("http://%s:%s", authzAlias, os.Getenv("AUTHZ_PORT")),
			"AUTHZ_CLIENT_ID":     os.Getenv("AUTHZ_CLIENT_ID"),
			"PORT":                servicePortNumber,
		},
		WaitingFor: wait.ForHTTP("/metrics").WithPort(tcpServicePort).WithStartupTimeout(60 * time.Second),
		Networks:   []string{networkName},
	}

	exists, err := imageExists(ctx, ServiceImage)
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to check if image exists")
	}
	if exists {
		logMessage(t, "Image %s exists, reusing...", ServiceImage)
		serviceRequest.Image = ServiceImage
	} else {
		logMessage(t, "Image %s does not exist, building...", ServiceImage)
		builder, fromDockerfile, err := buildServiceImage(ctx)
		tc.ServiceBuilderContainer = builder
		if err != nil {
			tc.Terminate(t)
			exitWithError(t, err, "Failed to build shoplist-test-builder")
		}
		serviceRequest.FromDockerfile = fromDockerfile
	}

	serviceContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: serviceRequest,
		Started:          true,
	})
	if err != nil {
		tc.Terminate(t)
		exitWithError(t, err, "Failed to start shoplist")
	}
	tc.ServiceContainer = serviceContainer

	serviceHost, _ := serviceContainer.Host(ctx)
	servicePort, _ := serviceContainer.MappedPort(ctx, tcpServicePort)
	tc.BaseURL = fmt.Sprintf("http://%s:%s", serviceHost, servicePort.Port())
	logMessage(t, "BASE_URL=%s", tc.BaseURL)

	logMessage(t, "shoplist testcontainers started successfully")
	return tc, nil
}

// buildServiceImage builds the builder stage, so its layers are cached, and
// returns the request for the runtime stage
func buildServiceImage(ctx context.Context) (testcontainers.Container, testcontainers.FromDockerfile, error) {
	sessionID := uuid.New().String()
	buildArgs := map[string]*string{
		"RESOURCE_REAPER_SESSION_ID": &sessionID,
	}

	buildContext := os.Getenv("TESTCONTAINERS_BUILD_CONTEXT")
	if buildContext == "" {
		buildContext = "."
	}

	builder, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			FromDockerfile: testcontainers.FromDockerfile{
				Context:    buildContext,
				Dockerfile: "Dockerfile",
				Repo:       "shoplist-test-builder",
				Tag:        "latest",
				BuildArgs:  buildArgs,
				BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
					opts.Target = "builder"
				},
				PrintBuildLog: true,
			},
		},
		Started: false,
	})
	if err != nil {
		return nil, testcontainers.FromDockerfile{}, err
	}

	repo, tag, _ := strings.Cut(ServiceImage, ":")
	return builder, testcontainers.FromDockerfile{
		Context:    buildContext,
		Dockerfile: "Dockerfile",
		Repo:       repo,
		Tag:        tag,
		KeepImage:  true,
		BuildArgs:  buildArgs,
		BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
			opts.Target = "runtime"
		},
		PrintBuildLog: true,
	}, nil
}

func dbInitEnv(dbType, rootPassword, database, user, password string) map[string]string {
	if dbType == "postgres" {
		return map[string]string{
			"POSTGRES_PASSWORD": password,
			"POSTGRES_USER":     user,
			"POSTGRES_DB":       database,
		}
	}
	return map[string]string{
		"MYSQL_ROOT_PASSWORD": rootPassword,
		"MYSQL_DATABASE":      database,
		"MYSQL_USER":          user,
		"MYSQL_PASSWORD":      password,
	}
}

// initMySQL waits for the server and applies the privileges script as root
func initMySQL(host, port, rootPassword, database, user string) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", rootPassword, host, port))
	if err != nil {
		return fmt.Errorf("failed to connect for setup: %w", err)
	}
	defer db.Close()

	for range 30 {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		return fmt.Errorf("not ready after 30 seconds: %w", err)
	}

	script := os.Expand(data.InitdbMariaDBPrivileges, func(key string) string {
		switch key {
		case "DB_DATABASE":
			return database
		case "DB_USER":
			return user
		}
		return ""
	})
	return executeSQL(db, script)
}

func createDatabase(host, port, rootPassword, database string) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", rootPassword, host, port))
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database))
	return err
}

// executeSQL runs each statement of a script. Whole-line -- comments are
// dropped; statements end with a semicolon.
func executeSQL(db *sql.DB, script string) error {
	var kept []string
	for line := range strings.SplitSeq(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	for q := range strings.SplitSeq(strings.Join(kept, "\n"), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), q)
		}
	}
	return nil
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}
	return false, nil
}

func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	} else {
		fmt.Printf(msg+": %v\n", err)
		os.Exit(1)
	}
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
