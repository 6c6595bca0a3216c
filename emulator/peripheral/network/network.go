// +build network

/*
Copyright (c) 2019-2021 Andreas T Jonsson

This software is provided 'as-is', without any express or implied
warranty. In no event will the authors be held liable for any damages
arising from the use of this software.

Permission is granted to anyone to use this software for any purpose,
including commercial applications, and to alter it and redistribute it
freely, subject to the following restrictions:

1. The origin of this software must not be misrepresented; you must not
   claim that you wrote the original software. If you use this software
   in a product, an acknowledgment in the product documentation would be
   appreciated but is not required.
2. Altered source versions must be plainly marked as such, and must not be
   misrepresented as being the original software.
3. This notice may not be removed or altered from any source distribution.
*/

package network

import (
	"bytes"
	"errors"
	"log"
	"math"
	"net"
	"sync"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// EtherType of link cable frames. It is reserved for local experiments.
const EtherType layers.EthernetType = 0x88B5

const queueSize = 64

var fallbackMAC = net.HardwareAddr{0x02, 0x47, 0x42, 0x00, 0x00, 0x01}

// Link emulates the link cable over raw Ethernet frames. Every
// outgoing byte is broadcast and received bytes are queued until the
// next exchange.
type Link struct {
	netInterface *pcap.Interface
	handle       *pcap.Handle
	mac          net.HardwareAddr

	lock     sync.Mutex
	received chan byte
	quitChan chan struct{}
}

// Open selects the named network device, or the first device with a
// usable address if name is empty.
func Open(name string) (*Link, error) {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return nil, err
	}

	l := &Link{
		received: make(chan byte, queueSize),
		quitChan: make(chan struct{}),
	}

	log.Print("Detected network devices:")
	for i := range devices {
		dev := &devices[i]
		log.Printf(" |- %s (%s)", dev.Description, dev.Name)

		if name != "" {
			if dev.Name == name {
				l.netInterface = dev
			}
			continue
		}

		var candidate *pcap.Interface
		for _, addr := range dev.Addresses {
			if addr.IP.IsUnspecified() || addr.IP.IsLoopback() {
				candidate = nil
				break
			}
			log.Printf(" |  |- %v", addr.IP)
			candidate = dev
		}
		if candidate != nil && l.netInterface == nil {
			l.netInterface = candidate
		}
	}

	if l.netInterface == nil {
		return nil, errors.New("no network device selected")
	}

	log.Print("Selected network device: ", l.netInterface.Name)
	l.mac = fallbackMAC
	if iface, err := net.InterfaceByName(l.netInterface.Name); err == nil && len(iface.HardwareAddr) == 6 {
		l.mac = iface.HardwareAddr
	}

	if l.handle, err = pcap.OpenLive(l.netInterface.Name, int32(math.MaxUint16), true, pcap.BlockForever); err != nil {
		return nil, err
	}
	if err := l.handle.SetBPFFilter("ether proto 0x88b5"); err != nil {
		l.handle.Close()
		return nil, err
	}
	if err := l.handle.SetDirection(pcap.DirectionIn); err != nil {
		log.Print(err)
	}

	go l.receiveLoop()
	return l, nil
}

func (l *Link) receiveLoop() {
	source := gopacket.NewPacketSource(l.handle, l.handle.LinkType())
	for {
		select {
		case <-l.quitChan:
			return
		case packet, ok := <-source.Packets():
			if !ok {
				return
			}
			if data, ok := decodeFrame(packet, l.mac); ok {
				select {
				case l.received <- data:
				default:
					log.Print("Link cable queue is full!")
				}
			}
		}
	}
}

func (l *Link) Exchange(out byte) byte {
	l.lock.Lock()
	defer l.lock.Unlock()

	frame, err := encodeFrame(l.mac, out)
	if err == nil {
		err = l.handle.WritePacketData(frame)
	}
	if err != nil {
		log.Print("Could not send link cable data: ", err)
	}

	select {
	case in := <-l.received:
		return in
	default:
		return 0xFF
	}
}

func (l *Link) Close() error {
	close(l.quitChan)
	l.handle.Close()
	return nil
}

func encodeFrame(src net.HardwareAddr, data byte) ([]byte, error) {
	eth := &layers.Ethernet{
		SrcMAC:       src,
		DstMAC:       layers.EthernetBroadcast,
		EthernetType: EtherType,
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, gopacket.Payload{data}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeFrame(packet gopacket.Packet, self net.HardwareAddr) (byte, bool) {
	layer := packet.Layer(layers.LayerTypeEthernet)
	if layer == nil {
		return 0, false
	}

	eth := layer.(*layers.Ethernet)
	if eth.EthernetType != EtherType || bytes.Equal(eth.SrcMAC, self) || len(eth.Payload) == 0 {
		return 0, false
	}
	return eth.Payload[0], true
}
