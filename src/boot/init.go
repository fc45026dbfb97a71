package boot

import (
	"context"
	"log"

	"gac/src/common"
	"gac/src/config"
	"gac/src/lib"
)

// InitScheduler starts the background scheduler and registers the
// periodic roster refresh so hosted rosters converge with the backend
// even when no admissions are happening.
func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateCronJob(func() {
		common.GetHub().RefreshAll(context.Background())
	}, config.RosterRefreshEvery())
	if err != nil {
		log.Printf("Error scheduling roster refresh: %s\n", err.Error())
		return
	}
	log.Printf("Roster refresh job registered: %s\n", *id)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}

// InitBroker ensures the admissions topic exists and starts consuming
// check-ins committed by other door devices.
func InitBroker() {
	go func() {
		if _, err := lib.KafkaCreateTopics(lib.AdmissionsTopic); err != nil {
			log.Printf("Error creating topics: %s\n", err.Error())
		}
	}()
	hub := common.GetHub()
	lib.KafkaConsumer("gac-device", lib.AdmissionsTopic, hub.HandleRemoteAdmission)
}
